package ml

import (
	"time"

	"github.com/yourusername/keiba-engine/internal/models"
)

// PastStats are the derived career statistics of one horse. Each
// field is absent when it cannot be computed from the supplied
// results.
type PastStats struct {
	WinRate           models.Score
	Top3Rate          models.Score
	AvgFinishPosition models.Score
	DaysSinceLastRace models.Score
}

// ComputePastStats derives win rate, top-3 rate, average finish
// position, and recency from a horse's past results. Rates are over
// all of the horse's results; a missing finish position counts as
// "not a win, not top-3". The average skips unfinished races.
func ComputePastStats(horseID string, results []models.PastResult, raceDate time.Time) PastStats {
	var stats PastStats
	var n, wins, top3 int
	var finishSum, finished int
	var mostRecent time.Time

	for _, r := range results {
		if horseID != "" && r.HorseID != horseID {
			continue
		}
		n++
		if r.FinishPosition == 1 {
			wins++
		}
		if r.Finished() && r.FinishPosition <= 3 {
			top3++
		}
		if r.Finished() {
			finishSum += r.FinishPosition
			finished++
		}
		if r.RaceDate.After(mostRecent) {
			mostRecent = r.RaceDate
		}
	}

	if n > 0 {
		stats.WinRate = models.NewScore(float64(wins) / float64(n))
		stats.Top3Rate = models.NewScore(float64(top3) / float64(n))
	}
	if finished > 0 {
		stats.AvgFinishPosition = models.NewScore(float64(finishSum) / float64(finished))
	}
	if !mostRecent.IsZero() && !raceDate.IsZero() {
		days := raceDate.Sub(mostRecent).Hours() / 24
		stats.DaysSinceLastRace = models.NewScore(days)
	}
	return stats
}
