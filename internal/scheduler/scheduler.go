// Package scheduler runs periodic model retraining on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/keiba-engine/internal/backtest"
	"github.com/yourusername/keiba-engine/internal/ml"
)

// Scheduler manages the periodic retraining job. Each run rebuilds the
// training set from everything recorded so far and fits a fresh model,
// which callers pick up through CurrentModel.
type Scheduler struct {
	cron            *cron.Cron
	builder         *backtest.TrainingDataBuilder
	trainer         ml.Trainer
	params          ml.TrainingParams
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration

	modelMu sync.RWMutex
	model   ml.Predictor
}

// NewScheduler creates a new retraining scheduler.
func NewScheduler(builder *backtest.TrainingDataBuilder, trainer ml.Trainer, params ml.TrainingParams, logger *logrus.Logger) (*Scheduler, error) {
	if builder == nil {
		return nil, fmt.Errorf("scheduler: training data builder is required")
	}
	if trainer == nil {
		return nil, fmt.Errorf("scheduler: trainer is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		builder:         builder,
		trainer:         trainer,
		params:          params,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}, nil
}

// ScheduleRetraining schedules the retraining job. The cron expression
// uses the standard five-field format or @-descriptors.
func (s *Scheduler) ScheduleRetraining(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, s.retrainJob)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled model retraining")

	return nil
}

func (s *Scheduler) retrainJob() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	if err := s.RetrainNow(ctx); err != nil {
		s.logger.WithError(err).Error("Scheduled retraining failed")
	}
}

// RetrainNow rebuilds the training set up to the current time and fits
// a fresh model. Used both by the cron job and on-demand by the CLI.
func (s *Scheduler) RetrainNow(ctx context.Context) error {
	cutoff := time.Now().UTC()

	features, labels, err := s.builder.Build(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("build training data: %w", err)
	}
	if len(features) < ml.MinTrainingSamples {
		s.logger.WithFields(logrus.Fields{
			"samples":  len(features),
			"required": ml.MinTrainingSamples,
		}).Warn("Skipping retraining, not enough samples")
		return nil
	}

	start := time.Now()
	model, err := s.trainer.Train(ctx, features, labels, s.params)
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	s.modelMu.Lock()
	s.model = model
	s.modelMu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"samples":      len(features),
		"duration_sec": time.Since(start).Seconds(),
	}).Info("Model retrained")

	return nil
}

// CurrentModel returns the most recently trained model, or nil before
// the first successful run.
func (s *Scheduler) CurrentModel() ml.Predictor {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.model
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job up to
// the graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out with a job still running")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
