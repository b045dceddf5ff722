package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crop_advisor"

// Metrics holds the Prometheus counters, histograms, and gauges for the advisor.
type Metrics struct {
	// Pipeline metrics.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Advisory metrics.
	Analyses               *prometheus.CounterVec // labels: outcome={success,weather_unavailable,incomplete}
	RecommendationRequests *prometheus.CounterVec // labels: outcome={success,empty,error}
	RecommendationsParsed  prometheus.Counter
	YieldPredictions       *prometheus.CounterVec // labels: source={static,model}, outcome={success,error}

	// Upstream API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: provider={openweather,ambee,llama,mapbox}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: provider
	CacheLookups     *prometheus.CounterVec   // labels: cache={weather,geocode_forward,geocode_reverse}, result={hit,miss}
	FeatureEnabled   *prometheus.GaugeVec     // labels: feature={geocoding,soil,kafka}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total analysis requests read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total advisories written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total requests skipped because they could not be parsed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Location analyses by outcome.",
		}, []string{"outcome"}),
		RecommendationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_requests_total",
			Help:      "Crop recommendation completions by outcome.",
		}, []string{"outcome"}),
		RecommendationsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_parsed_total",
			Help:      "Recommendation records extracted from completions.",
		}),
		YieldPredictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "yield_predictions_total",
			Help:      "Yield predictions by yield source and outcome.",
		}, []string{"source", "outcome"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 60},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		FeatureEnabled: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feature_enabled",
			Help:      "1 when an optional collaborator is enabled, 0 otherwise.",
		}, []string{"feature"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Analyses,
		m.RecommendationRequests,
		m.RecommendationsParsed,
		m.YieldPredictions,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.FeatureEnabled,
	}
}

// SetFeature records whether an optional collaborator is enabled.
func (m *Metrics) SetFeature(feature string, enabled bool) {
	v := 0.0
	if enabled {
		v = 1
	}
	m.FeatureEnabled.WithLabelValues(feature).Set(v)
}
