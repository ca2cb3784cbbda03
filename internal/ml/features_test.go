package ml

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/keiba-engine/internal/factors"
	"github.com/yourusername/keiba-engine/internal/models"
)

func TestFeatureNames_StableOrder(t *testing.T) {
	names := FeatureNames()
	assert.Len(t, names, FeatureCount)

	// Factor scores lead, in factor order, suffixed _score.
	for i, factor := range factors.FactorNames {
		assert.Equal(t, factor+"_score", names[i])
	}
	assert.Equal(t, "odds", names[7])
	assert.Equal(t, "field_size", names[14])
	assert.Equal(t, "days_since_last_race", names[18])
}

func TestBuildFeatureRow_FullInput(t *testing.T) {
	odds := 4.5
	popularity := 2
	weight := 480.0
	weightDiff := -2.0

	raceDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	in := FeatureInput{
		Entry: models.RaceEntry{
			HorseID:     "h1",
			HorseNumber: 7,
			Age:         4,
			Impost:      57.0,
			Odds:        &odds,
			Popularity:  &popularity,
			Weight:      &weight,
			WeightDiff:  &weightDiff,
		},
		FieldSize: 16,
		RaceDate:  raceDate,
		FactorScores: map[string]models.Score{
			factors.NamePastResults: models.NewScore(80.5),
			factors.NameCourseFit:   models.NewScore(62.5),
		},
		PastResults: []models.PastResult{
			{HorseID: "h1", FinishPosition: 1, RaceDate: raceDate.AddDate(0, 0, -30)},
			{HorseID: "h1", FinishPosition: 5, RaceDate: raceDate.AddDate(0, 0, -60)},
		},
	}

	row := BuildFeatureRow(in)
	assert.Len(t, row, FeatureCount)

	assert.Equal(t, 80.5, row[0])
	assert.Equal(t, 62.5, row[1])
	assert.True(t, math.IsNaN(row[2]), "absent time_index must be NaN")

	assert.Equal(t, 4.5, row[7])
	assert.Equal(t, 2.0, row[8])
	assert.Equal(t, 480.0, row[9])
	assert.Equal(t, -2.0, row[10])
	assert.Equal(t, 4.0, row[11])
	assert.Equal(t, 57.0, row[12])
	assert.Equal(t, 7.0, row[13])
	assert.Equal(t, 16.0, row[14])

	assert.Equal(t, 0.5, row[15]) // one win of two starts
	assert.Equal(t, 0.5, row[16])
	assert.Equal(t, 3.0, row[17]) // (1+5)/2
	assert.Equal(t, 30.0, row[18])
}

func TestBuildFeatureRow_MissingEverything(t *testing.T) {
	row := BuildFeatureRow(FeatureInput{
		Entry:     models.RaceEntry{HorseID: "h1", HorseNumber: 3, Age: 3, Impost: 54.0},
		FieldSize: 10,
	})
	assert.Len(t, row, FeatureCount)

	for _, i := range []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 16, 17, 18} {
		assert.True(t, math.IsNaN(row[i]), "column %d should be NaN", i)
	}
	assert.Equal(t, 3.0, row[11])
	assert.Equal(t, 54.0, row[12])
	assert.Equal(t, 3.0, row[13])
	assert.Equal(t, 10.0, row[14])
}
