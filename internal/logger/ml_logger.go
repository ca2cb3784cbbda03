// Package logger provides ML-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for model service operations.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogPredictionRequest logs one batched prediction round trip.
func (ml *MLLogger) LogPredictionRequest(modelID string, rows int, cacheHit bool, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"model_id":   modelID,
		"rows":       rows,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Prediction request completed")
}

// LogModelTraining logs a completed training run.
func (ml *MLLogger) LogModelTraining(modelID string, samples int, durationSec float64, params map[string]interface{}) {
	ml.WithFields(logrus.Fields{
		"model_id":     modelID,
		"samples":      samples,
		"duration_sec": durationSec,
		"params":       params,
	}).Info("Model training completed")
}

// LogTrainingDeclined logs a training request declined for lack of data.
func (ml *MLLogger) LogTrainingDeclined(samples, required int) {
	ml.WithFields(logrus.Fields{
		"samples":  samples,
		"required": required,
	}).Warn("Model training declined, not enough samples")
}

// LogPredictionError logs a failed prediction request.
func (ml *MLLogger) LogPredictionError(modelID string, errorReason string) {
	ml.WithFields(logrus.Fields{
		"model_id":     modelID,
		"error_reason": errorReason,
	}).Error("Prediction request failed")
}
