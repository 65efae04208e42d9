package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/metrics"
)

// ReversalUseCase requests compensating entries from the remote ledger. The
// entry itself is computed and committed remotely.
type ReversalUseCase struct {
	ledger    RemoteLedger
	views     *LedgerViewUseCase
	submitter *submitter
	logger    zerolog.Logger
}

// NewReversalUseCase creates a new ReversalUseCase.
func NewReversalUseCase(
	ledger RemoteLedger,
	views *LedgerViewUseCase,
	journal *Journal,
	idGen IDGenerator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *ReversalUseCase {
	logger = logger.With().Str("component", "reversal").Logger()
	return &ReversalUseCase{
		ledger: ledger,
		views:  views,
		submitter: &submitter{
			journal: journal,
			idGen:   idGen,
			metrics: metrics,
			logger:  logger,
		},
		logger: logger,
	}
}

// ReverseInput identifies the record to reverse and why.
type ReverseInput struct {
	TransactionID string
	Reason        domain.ReversalReason
	Note          string
}

// Reverse validates the reason before any remote call, rejects records known
// to be reversed, then asks the ledger for the reversal.
func (uc *ReversalUseCase) Reverse(ctx context.Context, input ReverseInput) (*domain.ReversalReceipt, error) {
	if strings.TrimSpace(input.TransactionID) == "" {
		return nil, domain.NewValidationError("transaction_id", domain.ErrTransactionIDRequired)
	}
	if err := domain.ValidateReversalReason(input.Reason, input.Note); err != nil {
		return nil, err
	}
	if err := domain.ValidateNote(input.Note); err != nil {
		return nil, err
	}
	if err := requireRole(ctx, domain.Role.CanReverse); err != nil {
		return nil, err
	}

	var playerID string
	original, err := uc.ledger.GetTransaction(ctx, input.TransactionID)
	switch {
	case err == nil:
		if err := original.CanReverse(); err != nil {
			return nil, err
		}
		if original.PlayerID != nil {
			playerID = *original.PlayerID
		}
	case errors.Is(err, domain.ErrTransactionNotFound):
		return nil, err
	default:
		// the ledger rejects a second reversal itself
		original = nil
		uc.logger.Warn().Err(err).Str("transaction_id", input.TransactionID).Msg("could not read transaction before reversal")
	}

	intent := domain.ReversalIntent{
		IntentID:      uc.submitter.idGen.Generate(),
		TransactionID: input.TransactionID,
		Reason:        input.Reason,
		Note:          strings.TrimSpace(input.Note),
	}

	sub := submission{
		op:       domain.OpReversal,
		action:   domain.AuditActionTransactionRevert,
		intentID: intent.IntentID,
		playerID: playerID,
		payload:  intent,
	}
	if original != nil {
		sub.amount = original.Amount
	}

	receipt, err := submit(ctx, uc.submitter, sub, func(ctx context.Context) (*domain.ReversalReceipt, error) {
		return uc.ledger.ReverseTransaction(ctx, intent)
	}, func(r *domain.ReversalReceipt) string {
		return r.ReversalEntryID
	})
	if err != nil {
		return nil, err
	}

	uc.submitter.metrics.IncReversal(string(input.Reason))
	uc.views.Invalidate(ctx, playerID)

	return receipt, nil
}
