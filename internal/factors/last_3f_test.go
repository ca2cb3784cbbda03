package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/keiba-engine/internal/models"
)

func last3fResult(horseID string, last3f float64) models.PastResult {
	return models.PastResult{HorseID: horseID, Last3F: &last3f, FinishPosition: 1}
}

func TestLast3FFactor_MeanOfThreeMostRecent(t *testing.T) {
	results := []models.PastResult{
		last3fResult("h1", 34.0),
		last3fResult("h1", 35.0),
		last3fResult("h1", 36.0),
		last3fResult("h1", 40.0), // fourth, ignored
	}
	f := &Last3FFactor{}
	score := f.Calculate(Context{HorseID: "h1", PastResults: results})

	v, ok := score.Value()
	assert.True(t, ok)
	// Mean 35.0: (38 - 35) / 5 * 100 = 60.
	assert.InDelta(t, 60.0, v, 0.001)
}

func TestLast3FFactor_ClampsAtExtremes(t *testing.T) {
	f := &Last3FFactor{}

	fast := f.Calculate(Context{HorseID: "h1", PastResults: []models.PastResult{last3fResult("h1", 31.0)}})
	v, _ := fast.Value()
	assert.Equal(t, 100.0, v)

	slow := f.Calculate(Context{HorseID: "h1", PastResults: []models.PastResult{last3fResult("h1", 41.0)}})
	v, _ = slow.Value()
	assert.Equal(t, 0.0, v)
}

func TestLast3FFactor_SkipsMissingSplits(t *testing.T) {
	results := []models.PastResult{
		{HorseID: "h1", FinishPosition: 1}, // no last 3F recorded
		last3fResult("h1", 34.5),
	}
	f := &Last3FFactor{}
	score := f.Calculate(Context{HorseID: "h1", PastResults: results})

	v, ok := score.Value()
	assert.True(t, ok)
	assert.InDelta(t, 70.0, v, 0.001)
}

func TestLast3FFactor_NoData(t *testing.T) {
	f := &Last3FFactor{}
	assert.False(t, f.Calculate(Context{HorseID: "h1"}).Valid())
}
