package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestPopularityFactor_FromRank(t *testing.T) {
	tests := []struct {
		rank int
		want float64
	}{
		{1, 100},
		{2, 90},
		{5, 60},
		{10, 10},
		{15, 10}, // floor
	}
	f := &PopularityFactor{}
	for _, tt := range tests {
		v, ok := f.Calculate(Context{Popularity: intPtr(tt.rank)}).Value()
		assert.True(t, ok)
		assert.Equal(t, tt.want, v, "rank %d", tt.rank)
	}
}

func TestPopularityFactor_FromOdds(t *testing.T) {
	tests := []struct {
		odds float64
		want float64
	}{
		{1.0, 100},
		{1.5, 95},
		{2.0, 90},
		{3.5, 75},
		{5.0, 60},
		{7.5, 45},
		{10.0, 30},
		{15.0, 20},
		{30.0, 10}, // floor
	}
	f := &PopularityFactor{}
	for _, tt := range tests {
		v, ok := f.Calculate(Context{Odds: floatPtr(tt.odds)}).Value()
		assert.True(t, ok)
		assert.InDelta(t, tt.want, v, 0.05, "odds %.1f", tt.odds)
	}
}

func TestPopularityFactor_RankPreferredOverOdds(t *testing.T) {
	f := &PopularityFactor{}
	v, ok := f.Calculate(Context{Popularity: intPtr(3), Odds: floatPtr(50.0)}).Value()
	assert.True(t, ok)
	assert.Equal(t, 80.0, v)
}

func TestPopularityFactor_NoMarketData(t *testing.T) {
	f := &PopularityFactor{}
	assert.False(t, f.Calculate(Context{}).Valid())
}
