package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/usecase"
)

const intentColumns = `id, operation, operator_id, COALESCE(player_id, ''), amount::text,
	payload, status, COALESCE(remote_ref, ''), COALESCE(error_message, ''), created_at, updated_at`

// IntentRepository implements usecase.IntentRepository on the cashier_intents table.
type IntentRepository struct {
	db querier
}

// NewIntentRepository creates a new IntentRepository.
func NewIntentRepository(pool *pgxpool.Pool) *IntentRepository {
	return newIntentRepository(pool)
}

func newIntentRepository(db querier) *IntentRepository {
	return &IntentRepository{db: db}
}

// Create records a pending intent. Re-recording an id is a no-op so a
// resubmitted intent keeps its first row.
func (r *IntentRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.IntentRecord) error {
	payload, err := marshalJSON(record.Payload)
	if err != nil {
		return err
	}

	_, err = within(tx, r.db).Exec(ctx, `
		INSERT INTO cashier_intents (
			id, operation, operator_id, player_id, amount,
			payload, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		record.ID,
		string(record.Operation),
		record.OperatorID,
		nullableText(record.PlayerID),
		record.Amount.String(),
		payload,
		string(record.Status),
		record.CreatedAt,
		record.UpdatedAt,
	)
	return err
}

// UpdateStatus records the outcome of an intent.
func (r *IntentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, record *domain.IntentRecord) error {
	tag, err := within(tx, r.db).Exec(ctx, `
		UPDATE cashier_intents
		SET status = $2, remote_ref = $3, error_message = $4, updated_at = $5
		WHERE id = $1`,
		record.ID,
		string(record.Status),
		nullableText(record.RemoteRef),
		nullableText(record.ErrorMessage),
		record.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIntentNotFound
	}
	return nil
}

// GetByID retrieves an intent by id.
func (r *IntentRepository) GetByID(ctx context.Context, id string) (*domain.IntentRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+intentColumns+` FROM cashier_intents WHERE id = $1`, id)

	record, err := scanIntent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIntentNotFound
		}
		return nil, err
	}
	return record, nil
}

// ListByOperator returns an operator's intents, newest first.
func (r *IntentRepository) ListByOperator(ctx context.Context, operatorID string, limit, offset int) ([]*domain.IntentRecord, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	rows, err := r.db.Query(ctx, `
		SELECT `+intentColumns+`
		FROM cashier_intents
		WHERE operator_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		operatorID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.IntentRecord
	for rows.Next() {
		record, err := scanIntent(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanIntent(row pgx.Row) (*domain.IntentRecord, error) {
	var (
		record    domain.IntentRecord
		operation string
		status    string
		amount    string
		payload   []byte
	)

	err := row.Scan(
		&record.ID,
		&operation,
		&record.OperatorID,
		&record.PlayerID,
		&amount,
		&payload,
		&status,
		&record.RemoteRef,
		&record.ErrorMessage,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Operation = domain.Operation(operation)
	record.Status = domain.IntentStatus(status)
	record.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("intent %s: bad amount %q: %w", record.ID, amount, err)
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &record.Payload); err != nil {
			return nil, fmt.Errorf("intent %s: bad payload: %w", record.ID, err)
		}
	}

	return &record, nil
}

func marshalJSON(v domain.JSON) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
