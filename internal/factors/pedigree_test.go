package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/keiba-engine/internal/models"
)

func TestPedigreeFactor_KnownSireUnknownDamSire(t *testing.T) {
	f := &PedigreeFactor{}
	score := f.Calculate(Context{
		Sire:           "ディープインパクト",
		DamSire:        "無名種牡馬",
		TargetDistance: 2000,
		TrackCondition: models.TrackGood,
	})

	v, ok := score.Value()
	assert.True(t, ok)
	// Sunday Silence middle 1.0, good 1.0; "other" middle 0.8,
	// good 0.9. Blend 0.7/0.3, average distance and track halves:
	// ((0.94) + (0.97)) / 2 * 100 = 95.5.
	assert.InDelta(t, 95.5, v, 0.05)
}

func TestPedigreeFactor_HeavyGoingShiftsScore(t *testing.T) {
	f := &PedigreeFactor{}
	good := f.Calculate(Context{
		Sire:           "ディープインパクト",
		TargetDistance: 2000,
		TrackCondition: models.TrackGood,
	})
	heavy := f.Calculate(Context{
		Sire:           "ディープインパクト",
		TargetDistance: 2000,
		TrackCondition: models.TrackHeavy,
	})

	gv, _ := good.Value()
	hv, _ := heavy.Value()
	// Sunday Silence line dislikes heavy going (0.7 vs 1.0).
	assert.Greater(t, gv, hv)
}

func TestPedigreeFactor_SprintSpecialistLine(t *testing.T) {
	f := &PedigreeFactor{}
	sprint := f.Calculate(Context{Sire: "ストームキャット", TargetDistance: 1200})
	long := f.Calculate(Context{Sire: "ストームキャット", TargetDistance: 2600})

	sv, _ := sprint.Value()
	lv, _ := long.Value()
	assert.Greater(t, sv, lv)
}

func TestPedigreeFactor_MissingInputs(t *testing.T) {
	f := &PedigreeFactor{}
	assert.False(t, f.Calculate(Context{TargetDistance: 2000}).Valid())
	assert.False(t, f.Calculate(Context{Sire: "ディープインパクト"}).Valid())
}

func TestPedigreeFactor_UnknownSireStillScores(t *testing.T) {
	f := &PedigreeFactor{}
	score := f.Calculate(Context{Sire: "完全に無名の馬", TargetDistance: 1600})

	v, ok := score.Value()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 100.0)
}
