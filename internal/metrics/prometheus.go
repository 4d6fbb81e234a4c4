package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalyzeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "triage_analyze_duration_seconds",
			Help:    "Analysis request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	AnalyzeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_analyze_total",
			Help: "Total number of analysis requests processed",
		},
		[]string{"status"},
	)

	SafetyShortCircuits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_safety_short_circuits_total",
			Help: "Total safety short-circuits before the LLM call",
		},
		[]string{"kind"},
	)

	PIIRedactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_pii_redactions_total",
			Help: "Total PII categories redacted from input",
		},
		[]string{"category"},
	)

	FallbackResponses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_fallback_responses_total",
			Help: "Total responses built from the unparseable-output fallback",
		},
	)

	HistoryWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_history_writes_total",
			Help: "Total history records written",
		},
	)
)

func Init() {
	prometheus.MustRegister(AnalyzeDuration)
	prometheus.MustRegister(AnalyzeTotal)
	prometheus.MustRegister(SafetyShortCircuits)
	prometheus.MustRegister(PIIRedactions)
	prometheus.MustRegister(FallbackResponses)
	prometheus.MustRegister(HistoryWrites)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
