package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScansTotal counts scan invocations by outcome ("ok", "partial", "invalid_input", "failed").
	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_scans_total",
			Help: "Number of scan invocations by outcome.",
		},
		[]string{"outcome"},
	)

	// FetchFailuresTotal counts failed transfer queries per entry set.
	FetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_fetch_failures_total",
			Help: "Number of failed transfer fetches per entry set.",
		},
		[]string{"view"},
	)

	// FetchDurationSeconds observes transfer query latency per entry set.
	FetchDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scanner_fetch_duration_seconds",
			Help:    "Latency of transfer fetches per entry set.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"view"},
	)

	// SkippedRecordsTotal counts raw records dropped during normalization.
	SkippedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_skipped_records_total",
			Help: "Number of malformed raw records skipped during normalization.",
		},
		[]string{"view"},
	)

	// BalanceLookupsTotal counts historical balance lookups by outcome
	// ("ok", "no_reference", "unavailable", "failed", "cached").
	BalanceLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scanner_balance_lookups_total",
			Help: "Number of historical balance lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// MustRegisterMetrics registers all scanner collectors with the default
// registry. Called once from main before the server starts.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		ScansTotal,
		FetchFailuresTotal,
		FetchDurationSeconds,
		SkippedRecordsTotal,
		BalanceLookupsTotal,
	)
}
