// Package ml defines the predictor and trainer contracts and the
// feature pipeline feeding them.
package ml

import "context"

// MinTrainingSamples is the smallest labeled set a trainer accepts.
// Below this, training declines and the caller keeps its current
// model (or none).
const MinTrainingSamples = 100

// Predictor is the narrow capability the prediction service needs: a
// fitted top-3 classifier. Each row of features must follow
// FeatureNames order; the result is P(top3) per row, in [0, 1].
type Predictor interface {
	PredictProba(ctx context.Context, features [][]float64) ([]float64, error)
}

// Trainer fits a Predictor from a labeled feature matrix. Labels are
// 1 for a top-3 finish, 0 otherwise.
type Trainer interface {
	Train(ctx context.Context, features [][]float64, labels []int, params TrainingParams) (Predictor, error)
}

// TrainingParams selects the gradient-boosting profile.
type TrainingParams struct {
	NumLeaves     int     `json:"num_leaves"`
	LearningRate  float64 `json:"learning_rate"`
	NumIterations int     `json:"num_iterations"`
}

// NormalParams is the full-quality profile used for standalone
// training runs.
func NormalParams() TrainingParams {
	return TrainingParams{NumLeaves: 31, LearningRate: 0.05, NumIterations: 100}
}

// LightweightParams trades accuracy for speed. Walk-forward backtests
// retrain many times per run and use this profile to stay inside the
// time budget.
func LightweightParams() TrainingParams {
	return TrainingParams{NumLeaves: 15, LearningRate: 0.1, NumIterations: 50}
}
