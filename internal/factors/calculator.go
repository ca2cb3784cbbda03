package factors

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/models"
)

// CachedCalculator runs every registered factor for a horse and
// memoizes the results in a bounded LRU keyed by factor fingerprints.
// The popularity factor is excluded from caching because its inputs
// are live market data, not the past-race set.
type CachedCalculator struct {
	factors  []Factor
	cache    *Cache
	combiner *Combiner
	log      *logrus.Logger
}

// NewCachedCalculator wires the standard seven factors to a cache and
// a combiner.
func NewCachedCalculator(cache *Cache, combiner *Combiner, log *logrus.Logger) (*CachedCalculator, error) {
	if cache == nil {
		return nil, fmt.Errorf("calculator: cache is required")
	}
	if combiner == nil {
		return nil, fmt.Errorf("calculator: combiner is required")
	}
	if log == nil {
		log = logrus.New()
	}
	return &CachedCalculator{
		factors: []Factor{
			&PastResultsFactor{},
			&CourseFitFactor{},
			&TimeIndexFactor{},
			&Last3FFactor{},
			&PopularityFactor{},
			&PedigreeFactor{},
			&RunningStyleFactor{},
		},
		cache:    cache,
		combiner: combiner,
		log:      log,
	}, nil
}

// CalculateAll scores every factor for the horse described by ctx and
// returns the per-factor scores plus the weighted total.
func (c *CachedCalculator) CalculateAll(ctx Context) (map[string]models.Score, models.Score) {
	scores := make(map[string]models.Score, len(c.factors))
	for _, f := range c.factors {
		scores[f.Name()] = c.calculate(f, ctx)
	}
	return scores, c.combiner.Combine(scores)
}

// Calculate scores a single factor by name. Unknown names return an
// absent score.
func (c *CachedCalculator) Calculate(name string, ctx Context) models.Score {
	for _, f := range c.factors {
		if f.Name() == name {
			return c.calculate(f, ctx)
		}
	}
	c.log.WithField("factor", name).Warn("unknown factor requested")
	return models.NoScore()
}

// CacheStats exposes the underlying cache counters.
func (c *CachedCalculator) CacheStats() CacheStats {
	return c.cache.Stats()
}

// ClearCache drops all memoized scores.
func (c *CachedCalculator) ClearCache() {
	c.cache.Clear()
}

func (c *CachedCalculator) calculate(f Factor, ctx Context) models.Score {
	if f.Name() == NamePopularity {
		return f.Calculate(ctx)
	}

	key := Fingerprint(f.Name(), ctx.HorseID, ctx.PastRaceIDs, cacheParams(f.Name(), ctx))
	if score, ok := c.cache.Get(key); ok {
		return score
	}
	score := f.Calculate(ctx)
	c.cache.Put(key, score)
	return score
}

// cacheParams returns the target-race inputs that influence a
// factor's result beyond the past-race set. Only these belong in the
// fingerprint; anything else would fragment the cache for no reason.
func cacheParams(name string, ctx Context) map[string]string {
	switch name {
	case NameCourseFit:
		return map[string]string{
			"surface":  string(ctx.TargetSurface),
			"distance": strconv.Itoa(ctx.TargetDistance),
		}
	case NameTimeIndex:
		return map[string]string{
			"surface":         string(ctx.TargetSurface),
			"distance":        strconv.Itoa(ctx.TargetDistance),
			"track_condition": string(ctx.TrackCondition),
		}
	case NamePedigree:
		return map[string]string{
			"sire":            ctx.Sire,
			"dam_sire":        ctx.DamSire,
			"surface":         string(ctx.TargetSurface),
			"distance":        strconv.Itoa(ctx.TargetDistance),
			"track_condition": string(ctx.TrackCondition),
		}
	case NameRunningStyle:
		return map[string]string{
			"venue":           ctx.Venue,
			"target_distance": strconv.Itoa(ctx.TargetDistance),
		}
	default:
		return nil
	}
}
