package ml

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPredictor struct {
	calls int
	probs []float64
}

func (p *countingPredictor) PredictProba(_ context.Context, features [][]float64) ([]float64, error) {
	p.calls++
	out := make([]float64, len(features))
	copy(out, p.probs)
	return out, nil
}

func TestCachedPredictor_Memoizes(t *testing.T) {
	inner := &countingPredictor{probs: []float64{0.8, 0.3}}
	cached := NewCachedPredictor(inner, time.Minute, nil)

	matrix := [][]float64{{1, 2}, {3, 4}}

	first, err := cached.PredictProba(context.Background(), matrix)
	require.NoError(t, err)
	second, err := cached.PredictProba(context.Background(), matrix)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	hits, misses := cached.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCachedPredictor_DistinctMatrices(t *testing.T) {
	inner := &countingPredictor{probs: []float64{0.5}}
	cached := NewCachedPredictor(inner, time.Minute, nil)

	_, err := cached.PredictProba(context.Background(), [][]float64{{1, 2}})
	require.NoError(t, err)
	_, err = cached.PredictProba(context.Background(), [][]float64{{1, 3}})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedPredictor_FlushForcesRecompute(t *testing.T) {
	inner := &countingPredictor{probs: []float64{0.5}}
	cached := NewCachedPredictor(inner, time.Minute, nil)

	matrix := [][]float64{{1, 2}}
	_, err := cached.PredictProba(context.Background(), matrix)
	require.NoError(t, err)

	cached.Flush()

	_, err = cached.PredictProba(context.Background(), matrix)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
