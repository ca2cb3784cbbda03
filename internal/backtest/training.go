package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/factors"
	"github.com/yourusername/keiba-engine/internal/ml"
	"github.com/yourusername/keiba-engine/internal/models"
)

// TrainingDataBuilder assembles a labeled feature matrix from every
// race strictly before a cutoff date. Each finished entry becomes one
// row; the label is 1 for a top-3 finish.
type TrainingDataBuilder struct {
	source     DataSource
	calculator *factors.CachedCalculator
	combiner   *factors.Combiner
	limit      int
	logger     *logrus.Logger
}

// NewTrainingDataBuilder wires a builder to the run's data source and
// factor calculator.
func NewTrainingDataBuilder(source DataSource, calculator *factors.CachedCalculator, combiner *factors.Combiner, logger *logrus.Logger) (*TrainingDataBuilder, error) {
	if source == nil {
		return nil, fmt.Errorf("training builder: data source is required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("training builder: calculator is required")
	}
	if combiner == nil {
		return nil, fmt.Errorf("training builder: combiner is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &TrainingDataBuilder{
		source:     source,
		calculator: calculator,
		combiner:   combiner,
		limit:      20,
		logger:     logger,
	}, nil
}

// Build returns the feature matrix and labels for all races dated
// strictly before cutoff. Scratched entries (finish position 0) are
// excluded.
func (b *TrainingDataBuilder) Build(ctx context.Context, cutoff time.Time) ([][]float64, []int, error) {
	races, err := b.source.GetRacesBefore(ctx, cutoff)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate training races: %w", err)
	}

	var features [][]float64
	var labels []int

	for _, race := range races {
		if !race.Date.Before(cutoff) {
			// The source contract already excludes these; re-check so a
			// buggy source cannot leak future results into training.
			continue
		}
		rows, rowLabels, err := b.raceRows(ctx, race)
		if err != nil {
			b.logger.WithError(err).WithField("race_id", race.ID).Warn("Skipping race in training set")
			continue
		}
		features = append(features, rows...)
		labels = append(labels, rowLabels...)
	}

	b.logger.WithFields(logrus.Fields{
		"cutoff":  cutoff.Format("2006-01-02"),
		"races":   len(races),
		"samples": len(features),
	}).Debug("Training set built")
	return features, labels, nil
}

func (b *TrainingDataBuilder) raceRows(ctx context.Context, race models.Race) ([][]float64, []int, error) {
	results, err := b.source.GetRaceResults(ctx, race.ID)
	if err != nil {
		return nil, nil, err
	}

	horseIDs := make([]string, 0, len(results))
	for _, res := range results {
		if res.Finished() {
			horseIDs = append(horseIDs, res.HorseID)
		}
	}
	horses, err := b.source.GetHorses(ctx, horseIDs)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]float64
	var labels []int
	for _, res := range results {
		if !res.Finished() {
			continue
		}
		past, err := b.source.GetPastResults(ctx, res.HorseID, race.Date, b.limit)
		if err != nil {
			return nil, nil, err
		}

		ids := make([]string, len(past))
		for i, r := range past {
			ids[i] = r.RaceID
		}
		horse := horses[res.HorseID]
		scores, _ := b.calculator.CalculateAll(factors.Context{
			HorseID:        res.HorseID,
			PastResults:    past,
			PastRaceIDs:    ids,
			Presorted:      true,
			TargetSurface:  race.Surface,
			TargetDistance: race.Distance,
			TrackCondition: race.TrackCondition,
			Venue:          race.Venue,
			Odds:           res.Odds,
			Popularity:     res.Popularity,
			Sire:           horse.Sire,
			DamSire:        horse.DamSire,
		})

		entry := models.RaceEntry{
			HorseID:     res.HorseID,
			HorseNumber: res.HorseNumber,
			Impost:      res.Impost,
			Sex:         res.Sex,
			Age:         res.Age,
			Odds:        res.Odds,
			Popularity:  res.Popularity,
			Weight:      res.Weight,
			WeightDiff:  res.WeightDiff,
		}
		rows = append(rows, ml.BuildFeatureRow(ml.FeatureInput{
			Entry:        entry,
			FieldSize:    len(results),
			RaceDate:     race.Date,
			FactorScores: scores,
			PastResults:  past,
		}))

		label := 0
		if res.FinishPosition <= 3 {
			label = 1
		}
		labels = append(labels, label)
	}
	return rows, labels, nil
}
