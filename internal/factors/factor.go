// Package factors implements the per-horse scoring factors, the
// weighted score combiner, and the memoizing factor calculator.
package factors

import (
	"math"

	"github.com/yourusername/keiba-engine/internal/models"
)

// Factor names. These are also the keys of the factor-score maps and
// of the weight configuration table.
const (
	NamePastResults  = "past_results"
	NameCourseFit    = "course_fit"
	NameTimeIndex    = "time_index"
	NameLast3F       = "last_3f"
	NamePopularity   = "popularity"
	NamePedigree     = "pedigree"
	NameRunningStyle = "running_style"
)

// FactorNames lists all factors in feature-vector order.
var FactorNames = []string{
	NamePastResults,
	NameCourseFit,
	NameTimeIndex,
	NameLast3F,
	NamePopularity,
	NamePedigree,
	NameRunningStyle,
}

// Context carries everything a factor may need for one calculation.
// It is treated as immutable; factors never modify it.
type Context struct {
	HorseID     string
	PastResults []models.PastResult

	// PastRaceIDs identifies the past-result set for cache
	// fingerprinting. Order is significant.
	PastRaceIDs []string

	// Presorted asserts PastResults is already sorted by date
	// descending, letting past_results skip its own sort.
	Presorted bool

	// Target race context.
	TargetSurface  models.Surface
	TargetDistance int
	TrackCondition models.TrackCondition
	Venue          string

	// Live entry data, used only by the popularity factor.
	Odds       *float64
	Popularity *int

	// Pedigree inputs.
	Sire    string
	DamSire string

	// Per-course running-style win rates. Nil means the default table.
	CourseStats map[Style]float64
}

// Factor scores one horse against its past-race set. A factor returns
// an absent score when the data it needs is missing; it never errors
// on data quality.
type Factor interface {
	Name() string
	Calculate(ctx Context) models.Score
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
