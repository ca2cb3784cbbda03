// Package-level Prometheus metrics for model-service operations.
package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks rows scored by the model service
	PredictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "keiba_ml_predictions_total",
			Help: "Total number of feature rows scored",
		},
	)

	// PredictionLatency tracks model-service prediction latency
	PredictionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "keiba_ml_prediction_latency_seconds",
			Help:    "Model prediction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// TrainingRunsTotal tracks training attempts by outcome
	TrainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keiba_ml_training_runs_total",
			Help: "Total number of model training runs",
		},
		[]string{"status"},
	)

	// ModelServiceErrorsTotal tracks model-service call failures
	ModelServiceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keiba_ml_service_errors_total",
			Help: "Total number of model service errors",
		},
		[]string{"path", "error_type"},
	)
)
