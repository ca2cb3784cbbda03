package factors

import (
	"github.com/yourusername/keiba-engine/internal/models"
	"github.com/yourusername/keiba-engine/internal/pedigree"
)

// Sire dominates the blended aptitude; the dam-sire contributes the
// remainder.
const (
	sireWeight    = 0.7
	damSireWeight = 0.3
)

// PedigreeFactor scores the aptitude of the horse's sire and dam-sire
// lines for the target distance band and going.
type PedigreeFactor struct{}

func (f *PedigreeFactor) Name() string { return NamePedigree }

func (f *PedigreeFactor) Calculate(ctx Context) models.Score {
	if ctx.Sire == "" || ctx.TargetDistance <= 0 {
		return models.NoScore()
	}

	sireApt := pedigree.LineAptitude(pedigree.SireLine(ctx.Sire))
	damSireLine := pedigree.OtherLine
	if ctx.DamSire != "" {
		damSireLine = pedigree.SireLine(ctx.DamSire)
	}
	damSireApt := pedigree.LineAptitude(damSireLine)

	band := models.DistanceBandOf(ctx.TargetDistance)
	trackType := pedigree.TrackTypeOf(ctx.TrackCondition)

	distanceScore := sireApt.Distance[band]*sireWeight + damSireApt.Distance[band]*damSireWeight
	trackScore := sireApt.Track[trackType]*sireWeight + damSireApt.Track[trackType]*damSireWeight

	total := (distanceScore + trackScore) / 2
	return models.NewScore(round1(total * 100))
}
