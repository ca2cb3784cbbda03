// Package metrics defines backtesting-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest counters
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keiba",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})
	BacktestRacesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba",
		Name:      "backtest_races_total",
		Help:      "Total number of races processed across backtest runs",
	})
	BacktestRacesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba",
		Name:      "backtest_races_skipped_total",
		Help:      "Total number of races skipped for missing or bad data",
	})
	BacktestRetrainsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "keiba",
		Name:      "backtest_retrains_total",
		Help:      "Total number of model retraining attempts during backtests",
	})
)

// Backtest histograms
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "keiba",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// Backtest gauges
var (
	BacktestWinHitRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "keiba",
		Name:      "backtest_win_hit_rate",
		Help:      "Rank-1 win hit rate of the most recent backtest run",
	})
)

// RecordBacktestRun records a completed backtest run.
// status should be one of: "success", "failure", "cancelled"
func RecordBacktestRun(status string, durationSeconds float64) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
	BacktestDuration.Observe(durationSeconds)
}

// RecordBacktestProgress records per-run race counts.
func RecordBacktestProgress(races, skipped, retrains int) {
	BacktestRacesTotal.Add(float64(races))
	BacktestRacesSkippedTotal.Add(float64(skipped))
	BacktestRetrainsTotal.Add(float64(retrains))
}

// UpdateWinHitRate publishes the rank-1 win hit rate of a finished run.
func UpdateWinHitRate(rate float64) {
	BacktestWinHitRate.Set(rate)
}
