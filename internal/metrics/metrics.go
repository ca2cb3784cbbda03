// Package metrics provides the centralized Prometheus registry for the
// prediction engine.
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
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba",
		Name:      "predictions_total",
		Help:      "Total number of race cards predicted",
	})
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba",
		Name:      "simulation_runs_total",
		Help:      "Total number of bet simulations by bet type",
	}, []string{"bet_type"})
)

// Gauge metrics. The factor cache reports cumulative hit and miss
// counts, so they are published as gauges set from its stats snapshot.
var (
	FactorCacheHits = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba",
		Name:      "factor_cache_hits",
		Help:      "Cumulative factor cache hits as reported by the cache",
	})
	FactorCacheMisses = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba",
		Name:      "factor_cache_misses",
		Help:      "Cumulative factor cache misses as reported by the cache",
	})
	FactorCacheSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba",
		Name:      "factor_cache_size",
		Help:      "Current number of cached factor scores",
	})
	SimulationReturnRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "keiba",
		Name:      "simulation_return_rate",
		Help:      "Return rate of the most recent simulation by bet type",
	}, []string{"bet_type"})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keiba",
		Name:      "prediction_duration_seconds",
		Help:      "Duration of one race card prediction in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(SimulationRunsTotal)

		registry.MustRegister(FactorCacheHits)
		registry.MustRegister(FactorCacheMisses)
		registry.MustRegister(FactorCacheSize)
		registry.MustRegister(SimulationReturnRate)

		registry.MustRegister(PredictionDuration)

		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestRacesTotal)
		registry.MustRegister(BacktestRacesSkippedTotal)
		registry.MustRegister(BacktestRetrainsTotal)
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(BacktestWinHitRate)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. The default gatherer is
// included so metrics registered by other packages are exported too.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordPrediction records one predicted race card.
func RecordPrediction(durationSeconds float64) {
	PredictionsTotal.Inc()
	PredictionDuration.Observe(durationSeconds)
}

// UpdateFactorCacheStats publishes a factor cache stats snapshot.
func UpdateFactorCacheStats(hits, misses uint64, size int) {
	FactorCacheHits.Set(float64(hits))
	FactorCacheMisses.Set(float64(misses))
	FactorCacheSize.Set(float64(size))
}

// RecordSimulationRun records a completed simulation.
func RecordSimulationRun(betType string, returnRate float64) {
	SimulationRunsTotal.WithLabelValues(betType).Inc()
	SimulationReturnRate.WithLabelValues(betType).Set(returnRate)
}
