package factors

import "github.com/yourusername/keiba-engine/internal/models"

// PopularityFactor scores market confidence. A popularity rank is
// preferred; final odds are the fallback via a piecewise-linear
// schedule. This is the one factor that depends on per-entry market
// data rather than the past-race set, so it is never cached.
type PopularityFactor struct{}

func (f *PopularityFactor) Name() string { return NamePopularity }

func (f *PopularityFactor) Calculate(ctx Context) models.Score {
	if ctx.Popularity != nil {
		rank := *ctx.Popularity
		score := 100.0 - float64(rank-1)*10
		if score < 10 {
			score = 10
		}
		return models.NewScore(score)
	}

	if ctx.Odds != nil {
		return models.NewScore(round1(scoreFromOdds(*ctx.Odds)))
	}

	return models.NoScore()
}

func scoreFromOdds(odds float64) float64 {
	switch {
	case odds <= 2.0:
		return 100 - (odds-1.0)*10
	case odds <= 5.0:
		return 90 - (odds-2.0)*10
	case odds <= 10.0:
		return 60 - (odds-5.0)*6
	default:
		score := 30 - (odds-10.0)*2
		if score < 10 {
			score = 10
		}
		return score
	}
}
