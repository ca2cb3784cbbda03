package factors

import (
	"sort"

	"github.com/yourusername/keiba-engine/internal/grade"
	"github.com/yourusername/keiba-engine/internal/models"
)

// recencyWeights weight the most recent races highest. When fewer than
// five races are available the weighted mean renormalizes over the
// weights actually used.
var recencyWeights = []float64{0.35, 0.25, 0.20, 0.12, 0.08}

// gradeMultipliers boost the relative-finish score of races run in
// higher classes. Unlisted grades multiply by 1.0.
var gradeMultipliers = map[grade.Grade]float64{
	grade.G1:     1.5,
	grade.G2:     1.3,
	grade.G3:     1.2,
	grade.Jpn1:   1.4,
	grade.Jpn2:   1.2,
	grade.Jpn3:   1.1,
	grade.Listed: 1.1,
	grade.Open:   1.1,
	grade.Win3:   1.0,
	grade.Win2:   0.95,
	grade.Win1:   0.9,
	grade.Maiden: 0.8,
	grade.Debut:  0.7,
}

const defaultTotalRunners = 10

// PastResultsFactor scores the weighted relative finish positions of
// the horse's five most recent races, adjusted for race class.
type PastResultsFactor struct{}

func (f *PastResultsFactor) Name() string { return NamePastResults }

func (f *PastResultsFactor) Calculate(ctx Context) models.Score {
	races := make([]models.PastResult, 0, len(ctx.PastResults))
	for _, r := range ctx.PastResults {
		if r.HorseID == ctx.HorseID && r.Finished() {
			races = append(races, r)
		}
	}
	if len(races) == 0 {
		return models.NoScore()
	}

	if !ctx.Presorted {
		sort.SliceStable(races, func(i, j int) bool {
			return races[i].RaceDate.After(races[j].RaceDate)
		})
	}
	if len(races) > 5 {
		races = races[:5]
	}

	var totalScore, totalWeight float64
	for i, race := range races {
		score := f.raceScore(race)
		weight := recencyWeights[len(recencyWeights)-1]
		if i < len(recencyWeights) {
			weight = recencyWeights[i]
		}
		totalScore += score * weight
		totalWeight += weight
	}
	if totalWeight <= 0 {
		return models.NoScore()
	}
	return models.NewScore(round1(totalScore / totalWeight))
}

// raceScore is the relative finish score for one race, class-adjusted
// and capped at 100.
func (f *PastResultsFactor) raceScore(race models.PastResult) float64 {
	runners := race.TotalRunners
	if runners <= 0 {
		runners = defaultTotalRunners
	}
	base := float64(runners-race.FinishPosition+1) / float64(runners) * 100

	multiplier := 1.0
	if m, ok := gradeMultipliers[grade.Extract(race.RaceName)]; ok {
		multiplier = m
	}
	return clamp(base*multiplier, 0, 100)
}
