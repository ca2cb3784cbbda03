// Package backtest replays historical races in date order, refitting
// the prediction model walk-forward and streaming per-race results.
package backtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/ml"
	"github.com/yourusername/keiba-engine/internal/models"
	"github.com/yourusername/keiba-engine/internal/prediction"
)

// unknownActualRank marks an entry whose finish was not recorded.
const unknownActualRank = 99

// Config parameterizes one backtest run.
type Config struct {
	StartDate       time.Time
	EndDate         time.Time
	RetrainInterval RetrainInterval
	TrainingParams  ml.TrainingParams
}

// RunStats summarizes a finished run.
type RunStats struct {
	TotalRaces     int64
	SkippedRaces   int64
	Retrains       int64
	ModelAvailable bool
}

// Engine drives the walk-forward replay. Results stream one race at a
// time; the engine never buffers the period. A race whose data cannot
// be resolved is skipped, never aborting the run.
type Engine struct {
	source  DataSource
	service *prediction.Service
	trainer ml.Trainer
	builder *TrainingDataBuilder
	config  Config
	logger  *logrus.Logger

	model      ml.Predictor
	processed  atomic.Int64
	skipped    atomic.Int64
	retrains   atomic.Int64
	modelReady atomic.Bool
}

// NewEngine creates a backtest engine.
func NewEngine(source DataSource, service *prediction.Service, trainer ml.Trainer, builder *TrainingDataBuilder, cfg Config, logger *logrus.Logger) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("backtest engine: data source is required")
	}
	if service == nil {
		return nil, fmt.Errorf("backtest engine: prediction service is required")
	}
	if trainer == nil {
		return nil, fmt.Errorf("backtest engine: trainer is required")
	}
	if builder == nil {
		return nil, fmt.Errorf("backtest engine: training builder is required")
	}
	if cfg.StartDate.IsZero() || cfg.EndDate.IsZero() || cfg.EndDate.Before(cfg.StartDate) {
		return nil, fmt.Errorf("backtest engine: invalid date window [%s, %s]",
			cfg.StartDate.Format("2006-01-02"), cfg.EndDate.Format("2006-01-02"))
	}
	if _, err := ParseRetrainInterval(string(cfg.RetrainInterval)); err != nil {
		return nil, fmt.Errorf("backtest engine: %w", err)
	}
	if cfg.TrainingParams == (ml.TrainingParams{}) {
		cfg.TrainingParams = ml.LightweightParams()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		source:  source,
		service: service,
		trainer: trainer,
		builder: builder,
		config:  cfg,
		logger:  logger,
	}, nil
}

// Run starts the replay and returns the result stream. The channel
// closes when the period is exhausted or ctx is cancelled; the stream
// is finite, ordered, and consumed once.
func (e *Engine) Run(ctx context.Context) (<-chan models.RaceBacktestResult, error) {
	races, err := e.source.GetRacesByDateRange(ctx, e.config.StartDate, e.config.EndDate)
	if err != nil {
		return nil, fmt.Errorf("enumerate races: %w", err)
	}

	e.logger.WithFields(logrus.Fields{
		"start":    e.config.StartDate.Format("2006-01-02"),
		"end":      e.config.EndDate.Format("2006-01-02"),
		"races":    len(races),
		"interval": e.config.RetrainInterval,
	}).Info("Starting backtest run")

	out := make(chan models.RaceBacktestResult)
	go func() {
		defer close(out)
		policy := newRetrainPolicy(e.config.RetrainInterval)

		for _, race := range races {
			// Cancellation is honored at race boundaries only; a race
			// in flight completes.
			select {
			case <-ctx.Done():
				e.logger.WithError(ctx.Err()).Warn("Backtest cancelled")
				return
			default:
			}

			if policy.ShouldRetrain(race.Date) {
				e.retrain(ctx, race.Date)
				policy.MarkTrained(race.Date)
			}

			result, ok := e.processRace(ctx, race)
			if !ok {
				e.skipped.Add(1)
				continue
			}
			e.processed.Add(1)

			select {
			case out <- result:
			case <-ctx.Done():
				e.logger.WithError(ctx.Err()).Warn("Backtest cancelled")
				return
			}
		}
	}()
	return out, nil
}

// Stats reports run progress. Safe to call concurrently with Run.
func (e *Engine) Stats() RunStats {
	return RunStats{
		TotalRaces:     e.processed.Load(),
		SkippedRaces:   e.skipped.Load(),
		Retrains:       e.retrains.Load(),
		ModelAvailable: e.modelReady.Load(),
	}
}

// retrain refits the model on everything strictly before cutoff. On
// any failure the model is unset and the run continues factor-only.
func (e *Engine) retrain(ctx context.Context, cutoff time.Time) {
	e.retrains.Add(1)
	log := e.logger.WithField("cutoff", cutoff.Format("2006-01-02"))

	features, labels, err := e.builder.Build(ctx, cutoff)
	if err != nil {
		log.WithError(err).Warn("Training data build failed, model unset")
		e.setModel(nil)
		return
	}
	if len(features) < ml.MinTrainingSamples {
		log.WithField("samples", len(features)).Info("Too few samples, model unset")
		e.setModel(nil)
		return
	}

	model, err := e.trainer.Train(ctx, features, labels, e.config.TrainingParams)
	if err != nil {
		log.WithError(err).Warn("Training failed, model unset")
		e.setModel(nil)
		return
	}
	log.WithField("samples", len(features)).Info("Model retrained")
	e.setModel(model)
}

func (e *Engine) setModel(model ml.Predictor) {
	e.model = model
	e.modelReady.Store(model != nil)
}

// processRace predicts one race and attaches actual finishes. Any
// collaborator error skips the race.
func (e *Engine) processRace(ctx context.Context, race models.Race) (models.RaceBacktestResult, bool) {
	log := e.logger.WithField("race_id", race.ID)

	card, err := e.source.GetRaceCard(ctx, race.ID)
	if err != nil {
		log.WithError(err).Warn("Race card unavailable, skipping race")
		return models.RaceBacktestResult{}, false
	}

	predictions, err := e.service.PredictRace(ctx, card, e.model)
	if err != nil {
		log.WithError(err).Warn("Prediction failed, skipping race")
		return models.RaceBacktestResult{}, false
	}

	results, err := e.source.GetRaceResults(ctx, race.ID)
	if err != nil {
		log.WithError(err).Warn("Results unavailable, skipping race")
		return models.RaceBacktestResult{}, false
	}
	finishByNumber := make(map[int]int, len(results))
	for _, r := range results {
		if r.Finished() {
			finishByNumber[r.HorseNumber] = r.FinishPosition
		}
	}

	attached := make([]models.BacktestPrediction, len(predictions))
	for i, p := range predictions {
		actual := unknownActualRank
		if finish, ok := finishByNumber[p.HorseNumber]; ok {
			actual = finish
		}
		attached[i] = models.BacktestPrediction{PredictionResult: p, ActualRank: actual}
	}

	return models.RaceBacktestResult{
		RaceID:      race.ID,
		RaceDate:    race.DateString(),
		RaceName:    race.Name,
		Venue:       race.Venue,
		RaceNumber:  race.Number,
		Predictions: attached,
	}, true
}
