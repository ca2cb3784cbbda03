package factors

import "github.com/yourusername/keiba-engine/internal/models"

// Linear scale anchored at 33.0s (100 points) and 38.0s (0 points).
const (
	last3fCeiling = 38.0
	last3fRange   = 5.0
)

// Last3FFactor scores the mean of the horse's three most recent
// last-furlong times. Faster closing splits score higher.
type Last3FFactor struct{}

func (f *Last3FFactor) Name() string { return NameLast3F }

func (f *Last3FFactor) Calculate(ctx Context) models.Score {
	var sum float64
	var n int
	for _, r := range ctx.PastResults {
		if r.HorseID != ctx.HorseID || r.Last3F == nil {
			continue
		}
		sum += *r.Last3F
		n++
		if n == 3 {
			break
		}
	}
	if n == 0 {
		return models.NoScore()
	}

	mean := sum / float64(n)
	score := (last3fCeiling - mean) / last3fRange * 100
	return models.NewScore(clamp(round1(score), 0, 100))
}
