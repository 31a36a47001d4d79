package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// StableMetrics aggregates the counters and gauges tracked by the stablecoin
// engine and its HTTP surface.
type StableMetrics struct {
	operations      *prometheus.CounterVec
	oracleFailures  *prometheus.CounterVec
	liquidations    prometheus.Counter
	badDebtEvents   prometheus.Counter
	psmSwapVolume   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	stableOnce     sync.Once
	stableRegistry *StableMetrics
)

// Stable returns the process-wide metrics registry, registering the
// collectors on first use.
func Stable() *StableMetrics {
	stableOnce.Do(func() {
		stableRegistry = &StableMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stable_operations_total",
				Help: "Count of engine operations by name and result.",
			}, []string{"operation", "result"}),
			oracleFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stable_oracle_failures_total",
				Help: "Count of valuations aborted by oracle condition.",
			}, []string{"condition"}),
			liquidations: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "stable_liquidations_total",
				Help: "Count of completed liquidations.",
			}),
			badDebtEvents: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "stable_bad_debt_events_total",
				Help: "Count of liquidations that exhausted a position's collateral.",
			}),
			psmSwapVolume: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "stable_psm_swap_volume",
				Help: "Cumulative PSM swap volume by direction.",
			}, []string{"direction"}),
			requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "stable_http_request_duration_seconds",
				Help:    "Latency of HTTP requests by route and status.",
				Buckets: prometheus.DefBuckets,
			}, []string{"route", "status"}),
		}
		prometheus.MustRegister(
			stableRegistry.operations,
			stableRegistry.oracleFailures,
			stableRegistry.liquidations,
			stableRegistry.badDebtEvents,
			stableRegistry.psmSwapVolume,
			stableRegistry.requestDuration,
		)
	})
	return stableRegistry
}

// ObserveOperation records the outcome of one engine operation.
func (m *StableMetrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

// ObserveOracleFailure records a valuation aborted by the named oracle
// condition (unavailable, stale or invalid).
func (m *StableMetrics) ObserveOracleFailure(condition string) {
	if m == nil {
		return
	}
	if condition == "" {
		condition = "unknown"
	}
	m.oracleFailures.WithLabelValues(condition).Inc()
}

// ObserveLiquidation records a completed liquidation. exhausted marks a
// seizure that drained the position's collateral entirely.
func (m *StableMetrics) ObserveLiquidation(exhausted bool) {
	if m == nil {
		return
	}
	m.liquidations.Inc()
	if exhausted {
		m.badDebtEvents.Inc()
	}
}

// ObservePsmSwap accumulates swap volume for one direction ("to_stable" or
// "from_stable").
func (m *StableMetrics) ObservePsmSwap(direction string, amount uint64) {
	if m == nil {
		return
	}
	m.psmSwapVolume.WithLabelValues(direction).Add(float64(amount))
}

// ObserveRequestDuration records one HTTP request observation.
func (m *StableMetrics) ObserveRequestDuration(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, status).Observe(seconds)
}
