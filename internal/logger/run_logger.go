// Package logger provides run-level logging for backtests and simulations.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for backtest and simulation runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "run"),
	}
}

// LogBacktestStart logs the start of a backtest run.
func (r *RunLogger) LogBacktestStart(startDate, endDate, retrainInterval string) {
	r.WithFields(logrus.Fields{
		"start_date":       startDate,
		"end_date":         endDate,
		"retrain_interval": retrainInterval,
	}).Info("Backtest started")
}

// LogBacktestComplete logs the end of a backtest run.
func (r *RunLogger) LogBacktestComplete(totalRaces, skippedRaces, retrains int) {
	r.WithFields(logrus.Fields{
		"total_races":   totalRaces,
		"skipped_races": skippedRaces,
		"retrains":      retrains,
	}).Info("Backtest completed")
}

// LogRaceSkipped logs a race the backtest could not resolve.
func (r *RunLogger) LogRaceSkipped(raceID, reason string) {
	r.WithFields(logrus.Fields{
		"race_id": raceID,
		"reason":  reason,
	}).Warn("Race skipped")
}

// LogSimulationComplete logs a finished bet simulation.
func (r *RunLogger) LogSimulationComplete(betType string, totalRaces, totalHits int, returnRate float64) {
	r.WithFields(logrus.Fields{
		"bet_type":    betType,
		"total_races": totalRaces,
		"total_hits":  totalHits,
		"return_rate": returnRate,
	}).Info("Simulation completed")
}
