// Package metrics provides the centralized Prometheus metrics registry for
// the matchup engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchup_engine",
		Name:      "predictions_total",
		Help:      "Total number of match predictions served",
	}, []string{"source"}) // "computed" or "cached"

	PredictionsByConfidence = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchup_engine",
		Name:      "predictions_by_confidence_total",
		Help:      "Predictions served broken down by confidence label",
	}, []string{"label"})

	CalibrationLoadFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchup_engine",
		Name:      "calibration_load_failures_total",
		Help:      "Calibration documents that failed to load or parse",
	}, []string{"document"})

	ComparisonErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchup_engine",
		Name:      "comparison_errors_total",
		Help:      "Comparison requests that failed before reaching the engine",
	}, []string{"reason"})
)

// Gauge metrics
var (
	PredictionCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "matchup_engine",
		Name:      "prediction_cache_hit_ratio",
		Help:      "Prediction cache hit ratio since process start",
	})

	PredictionCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "matchup_engine",
		Name:      "prediction_cache_size",
		Help:      "Number of predictions currently cached",
	})
)

// Histogram metrics
var (
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "matchup_engine",
		Name:      "prediction_latency_seconds",
		Help:      "End-to-end latency of serving a comparison",
		Buckets:   prometheus.DefBuckets,
	})
)

// GetRegistry returns the process-wide registry, creating and populating it
// on first use.
func GetRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			PredictionsTotal,
			PredictionsByConfidence,
			CalibrationLoadFailuresTotal,
			ComparisonErrorsTotal,
			PredictionCacheHitRatio,
			PredictionCacheSize,
			PredictionLatency,
		)
	})
	return registry
}

// Handler returns an HTTP handler exposing the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
