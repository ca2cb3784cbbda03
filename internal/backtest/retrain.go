package backtest

import (
	"fmt"
	"time"
)

// RetrainInterval is how often a walk-forward run refits its model.
type RetrainInterval string

const (
	RetrainDaily   RetrainInterval = "daily"
	RetrainWeekly  RetrainInterval = "weekly"
	RetrainMonthly RetrainInterval = "monthly"
)

// ParseRetrainInterval validates an interval string.
func ParseRetrainInterval(s string) (RetrainInterval, error) {
	switch RetrainInterval(s) {
	case RetrainDaily, RetrainWeekly, RetrainMonthly:
		return RetrainInterval(s), nil
	}
	return "", fmt.Errorf("invalid retrain interval %q (want daily, weekly or monthly)", s)
}

// retrainPolicy decides when the engine refits. The first race of a
// run always trains.
type retrainPolicy struct {
	interval    RetrainInterval
	trained     bool
	lastTrained time.Time
}

func newRetrainPolicy(interval RetrainInterval) *retrainPolicy {
	return &retrainPolicy{interval: interval}
}

// ShouldRetrain reports whether a race on raceDate needs a fresh
// model.
func (p *retrainPolicy) ShouldRetrain(raceDate time.Time) bool {
	if !p.trained {
		return true
	}
	switch p.interval {
	case RetrainDaily:
		return raceDate.After(p.lastTrained)
	case RetrainWeekly:
		ly, lw := p.lastTrained.ISOWeek()
		ry, rw := raceDate.ISOWeek()
		return ly != ry || lw != rw
	case RetrainMonthly:
		return p.lastTrained.Year() != raceDate.Year() || p.lastTrained.Month() != raceDate.Month()
	}
	return false
}

// MarkTrained records a training attempt at raceDate. Called whether
// or not training produced a model, so a declined fit is not retried
// until the next interval boundary.
func (p *retrainPolicy) MarkTrained(raceDate time.Time) {
	p.trained = true
	p.lastTrained = raceDate
}
