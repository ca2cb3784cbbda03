package ml

import (
	"math"
	"time"

	"github.com/yourusername/keiba-engine/internal/factors"
	"github.com/yourusername/keiba-engine/internal/models"
)

// FeatureCount is the fixed width of the feature vector.
const FeatureCount = 19

// featureNames is the published column order: seven factor scores,
// eight raw entry fields, four derived past stats. Model I/O depends
// on this order never changing.
var featureNames = []string{
	"past_results_score",
	"course_fit_score",
	"time_index_score",
	"last_3f_score",
	"popularity_score",
	"pedigree_score",
	"running_style_score",
	"odds",
	"popularity",
	"weight",
	"weight_diff",
	"age",
	"impost",
	"horse_number",
	"field_size",
	"win_rate",
	"top3_rate",
	"avg_finish_position",
	"days_since_last_race",
}

// FeatureNames returns the feature column order. The slice is a copy.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// FeatureInput collects everything one feature row is built from.
type FeatureInput struct {
	Entry        models.RaceEntry
	FieldSize    int
	RaceDate     time.Time
	FactorScores map[string]models.Score
	PastResults  []models.PastResult
}

// BuildFeatureRow assembles one model input row. Missing values
// become NaN so a tree learner can partition on absence natively;
// NaN never leaves the model I/O layer.
func BuildFeatureRow(in FeatureInput) []float64 {
	row := make([]float64, 0, FeatureCount)

	for _, name := range factors.FactorNames {
		row = append(row, scoreOrNaN(in.FactorScores[name]))
	}

	row = append(row,
		floatOrNaN(in.Entry.Odds),
		intOrNaN(in.Entry.Popularity),
		floatOrNaN(in.Entry.Weight),
		floatOrNaN(in.Entry.WeightDiff),
		float64(in.Entry.Age),
		in.Entry.Impost,
		float64(in.Entry.HorseNumber),
		float64(in.FieldSize),
	)

	stats := ComputePastStats(in.Entry.HorseID, in.PastResults, in.RaceDate)
	row = append(row,
		scoreOrNaN(stats.WinRate),
		scoreOrNaN(stats.Top3Rate),
		scoreOrNaN(stats.AvgFinishPosition),
		scoreOrNaN(stats.DaysSinceLastRace),
	)

	return row
}

func scoreOrNaN(s models.Score) float64 {
	return s.ValueOr(math.NaN())
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func intOrNaN(v *int) float64 {
	if v == nil {
		return math.NaN()
	}
	return float64(*v)
}
