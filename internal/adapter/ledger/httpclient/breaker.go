package httpclient

import (
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/rs/zerolog"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/metrics"
)

// BreakerConfig configures the circuit breaker in front of the remote ledger.
type BreakerConfig struct {
	// FailureThreshold failures out of MinRequests trip the breaker.
	FailureThreshold uint
	MinRequests      uint
	// Delay is how long the breaker stays open before probing.
	Delay            time.Duration
	SuccessThreshold uint
}

// DefaultBreakerConfig returns the production breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		MinRequests:      10,
		Delay:            15 * time.Second,
		SuccessThreshold: 1,
	}
}

func stateName(s circuitbreaker.State) (string, int) {
	switch s {
	case circuitbreaker.HalfOpenState:
		return "half-open", 1
	case circuitbreaker.OpenState:
		return "open", 2
	default:
		return "closed", 0
	}
}

// newBreaker builds a breaker that only counts transport and server failures.
// Business rejections from the ledger are answers, not outages.
func newBreaker(cfg BreakerConfig, m *metrics.Metrics, logger zerolog.Logger) circuitbreaker.CircuitBreaker[any] {
	def := DefaultBreakerConfig()
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	if cfg.FailureThreshold == 0 || cfg.FailureThreshold > cfg.MinRequests {
		cfg.FailureThreshold = min(def.FailureThreshold, cfg.MinRequests)
	}
	if cfg.Delay <= 0 {
		cfg.Delay = def.Delay
	}
	if cfg.SuccessThreshold == 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}

	return circuitbreaker.NewBuilder[any]().
		HandleIf(func(_ any, err error) bool {
			return errors.Is(err, domain.ErrRemoteUnavailable)
		}).
		WithFailureThresholdRatio(cfg.FailureThreshold, cfg.MinRequests).
		WithDelay(cfg.Delay).
		WithSuccessThreshold(cfg.SuccessThreshold).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			from, _ := stateName(event.OldState)
			to, state := stateName(event.NewState)
			m.RecordBreakerTransition(from, to, state)
			logger.Warn().
				Str("from_state", from).
				Str("to_state", to).
				Msg("remote ledger circuit breaker state change")
		}).
		Build()
}
