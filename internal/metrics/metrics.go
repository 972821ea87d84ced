package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	OpCalculate = "calculate"
	OpCompare   = "compare"
)

var (
	// Calculations counts engine invocations by outcome.
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_calculations_total",
			Help: "Number of mortgage calculations",
		},
		[]string{"operation", "status"},
	)

	// CalculationErrors counts failed calculations by cause.
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_calculation_errors_total",
			Help: "Number of failed mortgage calculations",
		},
		[]string{"operation", "error_type"},
	)

	// APIRequests counts HTTP requests by route and status code.
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_api_requests_total",
			Help: "HTTP requests served by the calculator API",
		},
		[]string{"endpoint", "status"},
	)

	// CacheLookups counts result cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_cache_lookups_total",
			Help: "Result cache lookups",
		},
		[]string{"result"},
	)

	// SchedulePeriods observes the length of computed schedules.
	SchedulePeriods = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mortgage_schedule_periods",
			Help:    "Number of payment periods in computed schedules",
			Buckets: []float64{12, 60, 120, 180, 240, 360, 480, 600, 780},
		},
	)
)
