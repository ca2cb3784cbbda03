package ml

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingMatrix(n int) ([][]float64, []int) {
	features := make([][]float64, n)
	labels := make([]int, n)
	for i := range features {
		row := make([]float64, FeatureCount)
		for j := range row {
			row[j] = float64(i + j)
		}
		features[i] = row
		labels[i] = i % 2
	}
	return features, labels
}

func TestModelClient_TrainAndPredict(t *testing.T) {
	var gotTrain trainRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/models/train":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotTrain))
			json.NewEncoder(w).Encode(trainResponse{ModelID: "m-1", Status: "done"})
		case "/api/v1/models/m-1/predict":
			var req predictRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			probs := make([]float64, len(req.Features))
			for i := range probs {
				probs[i] = 0.5
			}
			json.NewEncoder(w).Encode(predictResponse{Probabilities: probs})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewModelClient(ModelClientConfig{BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	features, labels := trainingMatrix(MinTrainingSamples)
	model, err := client.Train(context.Background(), features, labels, LightweightParams())
	require.NoError(t, err)

	assert.Equal(t, FeatureNames(), gotTrain.Columns)
	assert.Equal(t, 15, gotTrain.Params.NumLeaves)
	assert.NotEmpty(t, gotTrain.RequestID)

	probs, err := model.PredictProba(context.Background(), features[:3])
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, probs)
}

func TestModelClient_MissingValuesTravelAsNull(t *testing.T) {
	// Feature rows use NaN for missing cells (a debutant has no odds,
	// no weight history). The wire format must carry them as null, not
	// choke on them.
	var gotTrain trainRequest
	var gotPredict predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/models/train":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotTrain))
			json.NewEncoder(w).Encode(trainResponse{ModelID: "m-2", Status: "done"})
		case "/api/v1/models/m-2/predict":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPredict))
			probs := make([]float64, len(gotPredict.Features))
			for i := range probs {
				probs[i] = 0.4
			}
			json.NewEncoder(w).Encode(predictResponse{Probabilities: probs})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewModelClient(ModelClientConfig{BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	features, labels := trainingMatrix(MinTrainingSamples)
	features[0][2] = math.NaN()
	features[7][18] = math.NaN()

	model, err := client.Train(context.Background(), features, labels, LightweightParams())
	require.NoError(t, err)

	require.Len(t, gotTrain.Features, MinTrainingSamples)
	assert.Nil(t, gotTrain.Features[0][2], "missing cell arrives as null")
	assert.Nil(t, gotTrain.Features[7][18], "missing cell arrives as null")
	require.NotNil(t, gotTrain.Features[0][0])
	assert.Equal(t, features[0][0], *gotTrain.Features[0][0])

	row := make([]float64, FeatureCount)
	for j := range row {
		row[j] = float64(j)
	}
	row[5] = math.NaN()

	probs, err := model.PredictProba(context.Background(), [][]float64{row})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4}, probs)
	require.Len(t, gotPredict.Features, 1)
	assert.Nil(t, gotPredict.Features[0][5])
	require.NotNil(t, gotPredict.Features[0][6])
	assert.Equal(t, 6.0, *gotPredict.Features[0][6])
}

func TestModelClient_DeclinesSmallTrainingSet(t *testing.T) {
	client, err := NewModelClient(ModelClientConfig{BaseURL: "http://unused.invalid"}, nil)
	require.NoError(t, err)

	features, labels := trainingMatrix(MinTrainingSamples - 1)
	_, err = client.Train(context.Background(), features, labels, NormalParams())
	assert.ErrorIs(t, err, ErrInsufficientTrainingData)
}

func TestModelClient_LabelMismatch(t *testing.T) {
	client, err := NewModelClient(ModelClientConfig{BaseURL: "http://unused.invalid"}, nil)
	require.NoError(t, err)

	features, labels := trainingMatrix(MinTrainingSamples)
	_, err = client.Train(context.Background(), features, labels[:50], NormalParams())
	assert.ErrorIs(t, err, ErrFeatureDimension)
}

func TestModelClient_RequiresBaseURL(t *testing.T) {
	_, err := NewModelClient(ModelClientConfig{}, nil)
	assert.Error(t, err)
}

func TestRemoteModel_RejectsBadRow(t *testing.T) {
	client, err := NewModelClient(ModelClientConfig{BaseURL: "http://unused.invalid"}, nil)
	require.NoError(t, err)

	model := &remoteModel{client: client, modelID: "m-1"}
	_, err = model.PredictProba(context.Background(), [][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrFeatureDimension)
}
