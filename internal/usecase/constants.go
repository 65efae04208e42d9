package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a journal write.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultBalanceCacheTTL bounds how stale a degraded balance read can be.
	DefaultBalanceCacheTTL = 15 * time.Minute

	// DefaultShortfallProposalTTL is how long a shortfall proposal stays actionable.
	DefaultShortfallProposalTTL = 2 * time.Hour
)

// Outcomes recorded on submission metrics.
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)
