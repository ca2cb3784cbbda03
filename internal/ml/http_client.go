package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ModelClientConfig configures the HTTP model-service client.
type ModelClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	MaxRetries     int
	RequestsPerSec float64
}

// ModelClient talks to the external gradient-boosting service over
// HTTP. Training submits a labeled matrix and yields a model handle;
// prediction posts feature rows against that handle. Calls are rate
// limited and wrapped in a circuit breaker so a dead service fails
// fast instead of stalling a backtest.
type ModelClient struct {
	http    *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	baseURL string
	logger  *logrus.Logger
}

// NewModelClient creates a model-service client.
func NewModelClient(cfg ModelClientConfig, logger *logrus.Logger) (*ModelClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("model client: base URL is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 10
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	rc.Logger = nil

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "model-service",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &ModelClient{
		http:    rc,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		baseURL: cfg.BaseURL,
		logger:  logger,
	}, nil
}

type trainRequest struct {
	RequestID string         `json:"request_id"`
	Features  [][]*float64   `json:"features"`
	Labels    []int          `json:"labels"`
	Columns   []string       `json:"columns"`
	Params    TrainingParams `json:"params"`
}

// encodeFeatures rewrites the NaN missing-value sentinel as a nil
// pointer so it serializes to JSON null. encoding/json rejects NaN
// outright, and the model service reads null as a missing cell.
func encodeFeatures(features [][]float64) [][]*float64 {
	out := make([][]*float64, len(features))
	for i, row := range features {
		encoded := make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				v := v
				encoded[j] = &v
			}
		}
		out[i] = encoded
	}
	return out
}

type trainResponse struct {
	ModelID string `json:"model_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Train submits a training job and waits for the fitted model handle.
// Fewer than MinTrainingSamples rows declines with
// ErrInsufficientTrainingData before any network call.
func (c *ModelClient) Train(ctx context.Context, features [][]float64, labels []int, params TrainingParams) (Predictor, error) {
	if len(features) != len(labels) {
		return nil, fmt.Errorf("%w: %d feature rows vs %d labels", ErrFeatureDimension, len(features), len(labels))
	}
	if len(features) < MinTrainingSamples {
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrInsufficientTrainingData, len(features), MinTrainingSamples)
	}

	req := trainRequest{
		RequestID: uuid.NewString(),
		Features:  encodeFeatures(features),
		Labels:    labels,
		Columns:   FeatureNames(),
		Params:    params,
	}

	start := time.Now()
	var resp trainResponse
	if err := c.post(ctx, "/api/v1/models/train", req, &resp); err != nil {
		TrainingRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	if resp.ModelID == "" {
		TrainingRunsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: empty model id (%s)", ErrInvalidResponse, resp.Message)
	}

	c.logger.WithFields(logrus.Fields{
		"model_id": resp.ModelID,
		"samples":  len(features),
		"duration": time.Since(start),
	}).Info("Model trained")
	TrainingRunsTotal.WithLabelValues("success").Inc()

	return &remoteModel{client: c, modelID: resp.ModelID}, nil
}

// Model wraps an already-trained model handle as a Predictor. The
// service keeps fitted models addressable by ID across processes.
func (c *ModelClient) Model(modelID string) Predictor {
	return &remoteModel{client: c, modelID: modelID}
}

// HealthCheck probes the model service.
func (c *ModelClient) HealthCheck(ctx context.Context) error {
	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelServiceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrModelServiceUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *ModelClient) post(ctx context.Context, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(httpReq)
		if err != nil {
			ModelServiceErrorsTotal.WithLabelValues(path, "network").Inc()
			return nil, fmt.Errorf("%w: %v", ErrModelServiceUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			raw, _ := io.ReadAll(resp.Body)
			ModelServiceErrorsTotal.WithLabelValues(path, "http_error").Inc()
			return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return nil, nil
	})
	return err
}

type predictRequest struct {
	Features [][]*float64 `json:"features"`
}

type predictResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// remoteModel is the service-side fitted model behind a Predictor.
type remoteModel struct {
	client  *ModelClient
	modelID string
}

// ModelID returns the service-side handle of the fitted model.
func (m *remoteModel) ModelID() string {
	return m.modelID
}

func (m *remoteModel) PredictProba(ctx context.Context, features [][]float64) ([]float64, error) {
	for i, row := range features {
		if len(row) != FeatureCount {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrFeatureDimension, i, len(row))
		}
	}

	start := time.Now()
	var resp predictResponse
	path := fmt.Sprintf("/api/v1/models/%s/predict", m.modelID)
	if err := m.client.post(ctx, path, predictRequest{Features: encodeFeatures(features)}, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	if len(resp.Probabilities) != len(features) {
		return nil, fmt.Errorf("%w: %d probabilities for %d rows", ErrInvalidResponse, len(resp.Probabilities), len(features))
	}

	PredictionLatency.Observe(time.Since(start).Seconds())
	PredictionsTotal.Add(float64(len(features)))
	return resp.Probabilities, nil
}
