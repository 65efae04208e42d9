package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/metrics"
)

// Journal records operator intents and their outcomes with an audit row.
// The remote ledger stays authoritative: journal failures are logged and
// never change a submission's result. A nil *Journal records nothing.
type Journal struct {
	txManager  TransactionManager
	intentRepo IntentRepository
	auditRepo  AuditRepository
	retrier    Retrier
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewJournal creates a Journal.
func NewJournal(
	txManager TransactionManager,
	intentRepo IntentRepository,
	auditRepo AuditRepository,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *Journal {
	return &Journal{
		txManager:  txManager,
		intentRepo: intentRepo,
		auditRepo:  auditRepo,
		metrics:    metrics,
		logger:     logger.With().Str("component", "journal").Logger(),
	}
}

// WithRetrier retries journal transactions that hit deadlocks or
// serialization failures.
func (j *Journal) WithRetrier(r Retrier) *Journal {
	if j != nil {
		j.retrier = r
	}
	return j
}

// inTx runs fn in one database transaction, retried when a retrier is set.
func (j *Journal) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	run := func() error {
		tx, err := j.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	if j.retrier == nil {
		return run()
	}
	return j.retrier.Retry(ctx, run)
}

// Start records a pending intent before it is sent to the remote ledger.
func (j *Journal) Start(ctx context.Context, op domain.Operation, intentID, playerID string, amount decimal.Decimal, payload any) *domain.IntentRecord {
	now := time.Now().UTC()
	record := &domain.IntentRecord{
		ID:         intentID,
		Operation:  op,
		OperatorID: domain.OperatorID(ctx),
		PlayerID:   playerID,
		Amount:     amount,
		Payload:    domain.MarshalState(payload),
		Status:     domain.IntentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if j == nil {
		return record
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
	defer cancel()

	if err := j.inTx(txCtx, func(tx Transaction) error {
		return j.intentRepo.Create(txCtx, tx, record)
	}); err != nil {
		j.fail("start", record, err)
	}

	return record
}

// Finish records the outcome of an intent together with its audit row.
func (j *Journal) Finish(ctx context.Context, record *domain.IntentRecord, action domain.AuditAction, remoteRef string, submitErr error) {
	record.Status = outcomeStatus(submitErr)
	record.RemoteRef = remoteRef
	record.UpdatedAt = time.Now().UTC()
	if submitErr != nil {
		record.ErrorMessage = submitErr.Error()
	}

	if j == nil {
		return
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
	defer cancel()

	status := domain.AuditStatusFor(record.Status)
	auditLog := &domain.AuditLog{
		ID:           record.ID,
		OperatorID:   record.OperatorID,
		Action:       string(action),
		ResourceType: "intent",
		ResourceID:   record.ID,
		RequestID:    domain.RequestIDFromContext(ctx),
		Details:      record.Payload,
		Status:       string(status),
		ErrorMessage: record.ErrorMessage,
		CreatedAt:    record.UpdatedAt,
	}
	if remoteRef != "" {
		if auditLog.Details == nil {
			auditLog.Details = domain.JSON{}
		}
		auditLog.Details["remote_ref"] = remoteRef
	}

	stage := "finish"
	if err := j.inTx(txCtx, func(tx Transaction) error {
		if err := j.intentRepo.UpdateStatus(txCtx, tx, record); err != nil {
			return err
		}
		stage = "audit"
		if err := j.auditRepo.CreateTx(txCtx, tx, auditLog); err != nil {
			return err
		}
		stage = "finish"
		return nil
	}); err != nil {
		j.fail(stage, record, err)
		return
	}

	j.metrics.IncAuditLog(string(action), string(status))
}

func (j *Journal) fail(stage string, record *domain.IntentRecord, err error) {
	j.metrics.IncJournalError(stage)
	j.logger.Warn().
		Err(err).
		Str("stage", stage).
		Str("intent_id", record.ID).
		Str("operation", string(record.Operation)).
		Msg("intent journal write failed")
}

// outcomeStatus maps a submission error to the journal status. Validation and
// business rejections are "rejected"; transport failures are "failed".
func outcomeStatus(err error) domain.IntentStatus {
	switch {
	case err == nil:
		return domain.IntentCommitted
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return domain.IntentFailed
	default:
		return domain.IntentRejected
	}
}

// submissionOutcome is the metrics label for a submission result.
func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, domain.ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return OutcomeFailed
	default:
		return OutcomeRejected
	}
}
