package factors

import "github.com/yourusername/keiba-engine/internal/models"

// Bayesian smoothing of the raw top-3 rate toward a neutral prior, so
// a single matching race cannot swing the score to 0 or 100.
const (
	courseFitPriorMean   = 50.0
	courseFitPriorWeight = 3.0
)

// CourseFitFactor scores the horse's top-3 rate under the target
// surface and distance band.
type CourseFitFactor struct{}

func (f *CourseFitFactor) Name() string { return NameCourseFit }

func (f *CourseFitFactor) Calculate(ctx Context) models.Score {
	if ctx.TargetSurface == "" || ctx.TargetDistance <= 0 {
		return models.NoScore()
	}
	targetBand := models.DistanceBandOf(ctx.TargetDistance)

	var n, top3 int
	for _, r := range ctx.PastResults {
		if r.HorseID != ctx.HorseID || !r.Finished() {
			continue
		}
		if r.Surface != ctx.TargetSurface || models.DistanceBandOf(r.Distance) != targetBand {
			continue
		}
		n++
		if r.FinishPosition <= 3 {
			top3++
		}
	}
	if n == 0 {
		return models.NoScore()
	}

	raw := float64(top3) / float64(n) * 100
	smoothed := (raw*float64(n) + courseFitPriorMean*courseFitPriorWeight) /
		(float64(n) + courseFitPriorWeight)
	return models.NewScore(round1(smoothed))
}
