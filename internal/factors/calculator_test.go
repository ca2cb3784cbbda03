package factors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keiba-engine/internal/models"
)

func newTestCalculator(t *testing.T) *CachedCalculator {
	t.Helper()
	cache, err := NewCache(100)
	require.NoError(t, err)
	combiner, err := NewCombiner(SevenFactorWeights)
	require.NoError(t, err)
	calc, err := NewCachedCalculator(cache, combiner, nil)
	require.NoError(t, err)
	return calc
}

func calcTestContext() Context {
	last3f := 34.5
	odds := 3.2
	return Context{
		HorseID: "h1",
		PastResults: []models.PastResult{
			{
				HorseID:        "h1",
				RaceID:         "r1",
				RaceName:       "灘2勝クラス",
				RaceDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				Surface:        models.SurfaceTurf,
				Distance:       2000,
				FinishPosition: 2,
				TotalRunners:   12,
				Time:           "2:00.5",
				Last3F:         &last3f,
				PassingOrder:   "3-3-2",
			},
		},
		PastRaceIDs:    []string{"r1"},
		TargetSurface:  models.SurfaceTurf,
		TargetDistance: 2000,
		Venue:          "阪神",
		Odds:           &odds,
		Sire:           "ディープインパクト",
	}
}

func TestNewCachedCalculator_RequiresDeps(t *testing.T) {
	cache, err := NewCache(10)
	require.NoError(t, err)
	combiner, err := NewCombiner(DefaultWeights)
	require.NoError(t, err)

	_, err = NewCachedCalculator(nil, combiner, nil)
	assert.Error(t, err)
	_, err = NewCachedCalculator(cache, nil, nil)
	assert.Error(t, err)
}

func TestCachedCalculator_AllFactorsPresent(t *testing.T) {
	calc := newTestCalculator(t)
	scores, total := calc.CalculateAll(calcTestContext())

	assert.Len(t, scores, len(FactorNames))
	for _, name := range FactorNames {
		_, ok := scores[name]
		assert.True(t, ok, "factor %s missing from result", name)
	}
	assert.True(t, total.Valid())
}

func TestCachedCalculator_CacheIsObservationallyInvisible(t *testing.T) {
	calc := newTestCalculator(t)
	ctx := calcTestContext()

	cold, coldTotal := calc.CalculateAll(ctx)
	warm, warmTotal := calc.CalculateAll(ctx)

	assert.Equal(t, cold, warm)
	assert.Equal(t, coldTotal, warmTotal)
}

func TestCachedCalculator_SecondRunHitsCache(t *testing.T) {
	calc := newTestCalculator(t)
	ctx := calcTestContext()

	calc.CalculateAll(ctx)
	missesAfterCold := calc.CacheStats().Misses

	calc.CalculateAll(ctx)
	stats := calc.CacheStats()

	assert.Equal(t, missesAfterCold, stats.Misses, "warm run must not miss")
	// Six cacheable factors; popularity bypasses the cache.
	assert.Equal(t, uint64(6), stats.Hits)
}

func TestCachedCalculator_PopularityNeverCached(t *testing.T) {
	calc := newTestCalculator(t)
	ctx := calcTestContext()

	first, _ := calc.CalculateAll(ctx)
	v1, ok := first[NamePopularity].Value()
	require.True(t, ok)

	// Changing the odds must change the popularity score even though
	// nothing else about the context moved.
	newOdds := 20.0
	ctx.Odds = &newOdds
	second, _ := calc.CalculateAll(ctx)
	v2, ok := second[NamePopularity].Value()
	require.True(t, ok)

	assert.NotEqual(t, v1, v2)
}

func TestCachedCalculator_DistanceChangesFingerprint(t *testing.T) {
	calc := newTestCalculator(t)
	ctx := calcTestContext()

	first, _ := calc.CalculateAll(ctx)

	ctx.TargetDistance = 1200
	second, _ := calc.CalculateAll(ctx)

	// Course fit at a different band must be recomputed, not served
	// from the 2000m entry.
	assert.NotEqual(t, first[NameCourseFit], second[NameCourseFit])
}

func TestCachedCalculator_UnknownFactorName(t *testing.T) {
	calc := newTestCalculator(t)
	assert.False(t, calc.Calculate("no_such_factor", calcTestContext()).Valid())
}
