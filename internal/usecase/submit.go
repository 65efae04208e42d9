package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashdesk/internal/domain"
	applog "github.com/iho/cashdesk/internal/infrastructure/logger"
	"github.com/iho/cashdesk/internal/infrastructure/metrics"
)

// submitter sends one journaled intent to the remote ledger. It never retries:
// every write failure goes back to the operator.
type submitter struct {
	journal *Journal
	idGen   IDGenerator
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

type submission struct {
	op       domain.Operation
	action   domain.AuditAction
	intentID string
	playerID string
	amount   decimal.Decimal
	payload  any
}

func submit[R any](
	ctx context.Context,
	s *submitter,
	sub submission,
	call func(context.Context) (*R, error),
	remoteRef func(*R) string,
) (*R, error) {
	started := time.Now()
	record := s.journal.Start(ctx, sub.op, sub.intentID, sub.playerID, sub.amount, sub.payload)

	logger := applog.ForRequest(ctx, s.logger).With().
		Str("operation", string(sub.op)).
		Str("intent_id", sub.intentID).
		Str("amount", sub.amount.StringFixed(2)).
		Logger()
	logger.Info().Msg("submitting intent")

	receipt, err := call(ctx)

	ref := ""
	if err == nil {
		ref = remoteRef(receipt)
	}
	s.journal.Finish(ctx, record, sub.action, ref, err)
	s.metrics.ObserveSubmission(string(sub.op), submissionOutcome(err), started)

	if err != nil {
		logger.Warn().Err(err).Msg("intent not committed")
		return nil, err
	}

	logger.Info().Str("transaction_id", ref).Msg("intent committed")
	return receipt, nil
}

// requireRole rejects operators whose role lacks allowed. Requests without an
// authenticated operator are left to the transport's auth policy.
func requireRole(ctx context.Context, allowed func(domain.Role) bool) error {
	op, ok := domain.OperatorFromContext(ctx)
	if !ok {
		return nil
	}
	if !allowed(op.Role) {
		return domain.ErrInsufficientRole
	}
	return nil
}
