package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-engine/internal/backtest"
	"github.com/yourusername/keiba-engine/internal/metrics"
	"github.com/yourusername/keiba-engine/internal/prediction"
)

var (
	backtestStartDate string
	backtestEndDate   string
	backtestInterval  string
	backtestPerRace   bool
	backtestFormat    string
	backtestCSVPath   string
)

func init() {
	backtestCmd.Flags().StringVar(&backtestStartDate, "start-date", "", "Override start date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestEndDate, "end-date", "", "Override end date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestInterval, "retrain-interval", "", "Override retrain interval: daily, weekly, monthly")
	backtestCmd.Flags().BoolVar(&backtestPerRace, "per-race", false, "Stream per-race results as JSON lines")
	backtestCmd.Flags().StringVar(&backtestFormat, "format", "json", "Summary format: json or text")
	backtestCmd.Flags().StringVar(&backtestCSVPath, "csv", "", "Also export the headline metrics as CSV to this path")
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a historical period walk-forward and report accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		startStr := cfg.Backtest.StartDate
		if backtestStartDate != "" {
			startStr = backtestStartDate
		}
		endStr := cfg.Backtest.EndDate
		if backtestEndDate != "" {
			endStr = backtestEndDate
		}
		intervalStr := cfg.Backtest.RetrainInterval
		if backtestInterval != "" {
			intervalStr = backtestInterval
		}

		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", startStr, err)
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return fmt.Errorf("invalid end date %q: %w", endStr, err)
		}
		interval, err := backtest.ParseRetrainInterval(intervalStr)
		if err != nil {
			return err
		}

		db, source, err := openDataSource(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		cache, combiner, calculator, err := buildFactorStack()
		if err != nil {
			return err
		}

		service, err := prediction.NewService(calculator, combiner, source, log,
			prediction.WithAlpha(cfg.Prediction.Alpha),
			prediction.WithPastResultsLimit(cfg.Prediction.PastResultsLimit),
			prediction.WithMarketDataMode(prediction.MarketDataHistorical),
			prediction.WithHorseSource(source),
		)
		if err != nil {
			return err
		}

		trainer, err := newModelClient()
		if err != nil {
			return err
		}
		builder, err := backtest.NewTrainingDataBuilder(source, calculator, combiner, log)
		if err != nil {
			return err
		}

		engine, err := backtest.NewEngine(source, service, trainer, builder, backtest.Config{
			StartDate:       start,
			EndDate:         end,
			RetrainInterval: interval,
			TrainingParams:  trainingParams(),
		}, log)
		if err != nil {
			return err
		}

		runStart := time.Now()
		results, err := engine.Run(ctx)
		if err != nil {
			metrics.RecordBacktestRun("failure", time.Since(runStart).Seconds())
			return err
		}

		calc := backtest.NewMetricsCalculator()
		enc := json.NewEncoder(os.Stdout)
		for result := range results {
			calc.Observe(result)
			if backtestPerRace {
				if err := enc.Encode(result); err != nil {
					return err
				}
			}
		}
		if ctx.Err() != nil {
			metrics.RecordBacktestRun("cancelled", time.Since(runStart).Seconds())
			return ctx.Err()
		}

		report := calc.Report()
		stats := engine.Stats()
		metrics.RecordBacktestRun("success", time.Since(runStart).Seconds())
		metrics.RecordBacktestProgress(int(stats.TotalRaces), int(stats.SkippedRaces), int(stats.Retrains))
		metrics.UpdateWinHitRate(report.WinHitRate)
		metrics.UpdateFactorCacheStats(cache.Stats().Hits, cache.Stats().Misses, cache.Stats().Size)

		if backtestCSVPath != "" {
			if err := backtest.GenerateCSVExport(stats, report, backtestCSVPath); err != nil {
				return fmt.Errorf("export csv: %w", err)
			}
		}

		if backtestFormat == "text" {
			fmt.Print(backtest.GenerateConsoleReport(stats, report))
			return nil
		}

		summary := struct {
			Stats  backtest.RunStats       `json:"stats"`
			Report backtest.AccuracyReport `json:"report"`
		}{Stats: stats, Report: report}

		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}
