package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics. Registered explicitly from main (no init()),
// so unit tests importing this package don't fight over the default registry.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricedex",
			Name:      "provider_requests_total",
			Help:      "Outbound provider requests",
		},
		[]string{"provider", "status"}, // provider: search, scrape, screenshot, llm_text, llm_vision
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pricedex",
			Name:      "provider_request_duration_seconds",
			Help:      "Outbound provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricedex",
			Name:      "result_cache_total",
			Help:      "Comparison cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "bypass"
	)

	PipelineStageResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricedex",
			Name:      "pipeline_stage_results_total",
			Help:      "Items surviving each pipeline stage",
		},
		[]string{"stage"}, // raw, filtered, candidates, verified, availability, fallback
	)

	VerifierTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricedex",
			Name:      "verifier_tokens_total",
			Help:      "LLM tokens consumed by verification calls",
		},
		[]string{"model", "type"}, // type: prompt / completion / total
	)

	ScreenshotRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricedex",
			Name:      "screenshot_renders_total",
			Help:      "Paid screenshot renders requested",
		},
		[]string{"status"},
	)
)

// RegisterPipelineMetrics registers pipeline metrics with the default registry.
func RegisterPipelineMetrics() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		ProviderRequestDuration,
		CacheTotal,
		PipelineStageResults,
		VerifierTokensTotal,
		ScreenshotRendersTotal,
	)
}
