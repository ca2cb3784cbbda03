package ml

import "errors"

var (
	// ErrModelServiceUnavailable indicates the model service is unreachable
	ErrModelServiceUnavailable = errors.New("model service unavailable")

	// ErrInsufficientTrainingData indicates fewer labeled rows than the training minimum
	ErrInsufficientTrainingData = errors.New("insufficient training data")

	// ErrInvalidResponse indicates a malformed response from the model service
	ErrInvalidResponse = errors.New("invalid response from model service")

	// ErrPredictionFailed indicates the prediction call failed
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrFeatureDimension indicates a feature row of the wrong width
	ErrFeatureDimension = errors.New("feature row has wrong dimension")
)
