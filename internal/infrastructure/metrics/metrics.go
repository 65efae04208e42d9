package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics holds all cashier Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Submission metrics
	Submissions        *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	CreditSettled      prometheus.Histogram

	// Float metrics
	FloatShortfalls prometheus.Counter
	FloatTopUps     prometheus.Counter

	// Reversal metrics
	Reversals *prometheus.CounterVec

	// Read-path metrics
	DegradedReads *prometheus.CounterVec

	// Journal metrics
	JournalErrors    *prometheus.CounterVec
	AuditLogsCreated *prometheus.CounterVec

	// Remote ledger metrics
	LedgerBreakerState       prometheus.Gauge
	LedgerBreakerTransitions *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates and registers all metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_submissions_total",
				Help: "Total submissions to the remote ledger by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		SubmissionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashdesk_submission_duration_seconds",
				Help:    "Duration of remote ledger submissions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CreditSettled: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashdesk_credit_settled_amount",
			Help:    "Credit settled out of returned chip value on committed payouts",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		}),

		FloatShortfalls: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashdesk_float_shortfalls_total",
			Help: "Total payouts rejected by the remote ledger for insufficient float",
		}),
		FloatTopUps: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashdesk_float_topups_total",
			Help: "Total committed float top-ups",
		}),

		Reversals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_reversals_total",
				Help: "Total committed reversals by reason",
			},
			[]string{"reason"},
		),

		DegradedReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_degraded_reads_total",
				Help: "Total reads served from cache or defaults after a remote failure",
			},
			[]string{"read"},
		),

		JournalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_journal_errors_total",
				Help: "Total intent journal write failures",
			},
			[]string{"stage"},
		),
		AuditLogsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
		LedgerBreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cashdesk_ledger_circuit_state",
			Help: "Remote ledger circuit breaker state (0=closed, 1=half-open, 2=open)",
		}),
		LedgerBreakerTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashdesk_ledger_circuit_transitions_total",
				Help: "Remote ledger circuit breaker state transitions",
			},
			[]string{"from", "to"},
		),
	}
}

// ObserveSubmission records one remote submission.
func (m *Metrics) ObserveSubmission(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(operation, outcome).Inc()
	m.SubmissionDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveCreditSettled records credit repaid out of a committed payout.
func (m *Metrics) ObserveCreditSettled(amount decimal.Decimal) {
	if m == nil || !amount.IsPositive() {
		return
	}
	m.CreditSettled.Observe(amount.InexactFloat64())
}

// IncFloatShortfall counts a payout rejected for insufficient float.
func (m *Metrics) IncFloatShortfall() {
	if m == nil {
		return
	}
	m.FloatShortfalls.Inc()
}

// IncFloatTopUp counts a committed float top-up.
func (m *Metrics) IncFloatTopUp() {
	if m == nil {
		return
	}
	m.FloatTopUps.Inc()
}

// IncReversal counts a committed reversal.
func (m *Metrics) IncReversal(reason string) {
	if m == nil {
		return
	}
	m.Reversals.WithLabelValues(reason).Inc()
}

// IncDegradedRead counts a read served without a fresh remote answer.
func (m *Metrics) IncDegradedRead(read string) {
	if m == nil {
		return
	}
	m.DegradedReads.WithLabelValues(read).Inc()
}

// IncJournalError counts a failed journal write.
func (m *Metrics) IncJournalError(stage string) {
	if m == nil {
		return
	}
	m.JournalErrors.WithLabelValues(stage).Inc()
}

// IncAuditLog counts a written audit row.
func (m *Metrics) IncAuditLog(action, status string) {
	if m == nil {
		return
	}
	m.AuditLogsCreated.WithLabelValues(action, status).Inc()
}

// RecordBreakerTransition records a remote ledger circuit breaker state change.
// States are 0=closed, 1=half-open, 2=open.
func (m *Metrics) RecordBreakerTransition(from, to string, state int) {
	if m == nil {
		return
	}
	m.LedgerBreakerTransitions.WithLabelValues(from, to).Inc()
	m.LedgerBreakerState.Set(float64(state))
}
