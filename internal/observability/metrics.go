package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LotteryMetrics is the metrics surface the lottery service records to.
type LotteryMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordRoundStarted(ctx context.Context)
	RecordPlayerJoined(ctx context.Context)
	RecordRandomnessRequested(ctx context.Context)
	RecordRoundResolved(ctx context.Context, payout int64)
	RecordRoundVoided(ctx context.Context)
}

type prometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	roundsStarted      prometheus.Counter
	playersJoined      prometheus.Counter
	randomnessRequests prometheus.Counter
	roundsResolved     prometheus.Counter
	potPaidOut         prometheus.Counter
	roundsVoided       prometheus.Counter
}

// NewLotteryMetrics registers the lottery metrics on the given registry.
func NewLotteryMetrics(reg prometheus.Registerer) LotteryMetrics {
	m := &prometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lottery_operation_attempts_total",
			Help: "Number of service operation attempts.",
		}, []string{"operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lottery_operation_successes_total",
			Help: "Number of service operations that completed.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lottery_operation_failures_total",
			Help: "Number of service operations that failed.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lottery_operation_duration_seconds",
			Help:    "Duration of service operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lottery_rounds_started_total",
			Help: "Number of rounds started.",
		}),
		playersJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lottery_players_joined_total",
			Help: "Number of accepted joins.",
		}),
		randomnessRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lottery_randomness_requests_total",
			Help: "Number of randomness requests issued to the oracle.",
		}),
		roundsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lottery_rounds_resolved_total",
			Help: "Number of rounds resolved with a successful payout.",
		}),
		potPaidOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lottery_pot_paid_out_total",
			Help: "Total funds paid out to winners, in base units.",
		}),
		roundsVoided: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lottery_rounds_voided_total",
			Help: "Number of rounds voided by an operator.",
		}),
	}

	reg.MustRegister(
		m.operationAttempts,
		m.operationSuccesses,
		m.operationFailures,
		m.operationDuration,
		m.roundsStarted,
		m.playersJoined,
		m.randomnessRequests,
		m.roundsResolved,
		m.potPaidOut,
		m.roundsVoided,
	)
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.operationAttempts.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.operationSuccesses.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.operationFailures.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordRoundStarted(_ context.Context) {
	m.roundsStarted.Inc()
}

func (m *prometheusMetrics) RecordPlayerJoined(_ context.Context) {
	m.playersJoined.Inc()
}

func (m *prometheusMetrics) RecordRandomnessRequested(_ context.Context) {
	m.randomnessRequests.Inc()
}

func (m *prometheusMetrics) RecordRoundResolved(_ context.Context, payout int64) {
	m.roundsResolved.Inc()
	m.potPaidOut.Add(float64(payout))
}

func (m *prometheusMetrics) RecordRoundVoided(_ context.Context) {
	m.roundsVoided.Inc()
}

// NoOpMetrics satisfies LotteryMetrics without recording anything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordRoundStarted(context.Context)                             {}
func (NoOpMetrics) RecordPlayerJoined(context.Context)                             {}
func (NoOpMetrics) RecordRandomnessRequested(context.Context)                      {}
func (NoOpMetrics) RecordRoundResolved(context.Context, int64)                     {}
func (NoOpMetrics) RecordRoundVoided(context.Context)                              {}
