package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GenerateConsoleReport formats a finished run for terminal output.
func GenerateConsoleReport(stats RunStats, report AccuracyReport) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Races Evaluated: %d (skipped %d)\n", stats.TotalRaces, stats.SkippedRaces))
	builder.WriteString(fmt.Sprintf("Model Retrains: %d\n", stats.Retrains))
	builder.WriteString(fmt.Sprintf("Win Hit Rate: %.2f%%\n", report.WinHitRate*100))

	for _, k := range sortedKeys(report.PrecisionAtK) {
		builder.WriteString(fmt.Sprintf("Precision@%d: %.2f%%\n", k, report.PrecisionAtK[k]*100))
	}
	for _, rank := range sortedKeys(report.HitRateByRank) {
		builder.WriteString(fmt.Sprintf("Rank %d Top-3 Rate: %.2f%%\n", rank, report.HitRateByRank[rank]*100))
	}

	if len(report.FactorHitRates) > 0 {
		builder.WriteString("Factor Top-3 Rates:\n")
		factors := make([]string, 0, len(report.FactorHitRates))
		for name := range report.FactorHitRates {
			factors = append(factors, name)
		}
		sort.Strings(factors)
		for _, name := range factors {
			builder.WriteString(fmt.Sprintf("  %-15s %.2f%%\n", name, report.FactorHitRates[name]*100))
		}
	}
	return builder.String()
}

// GenerateCSVExport exports the headline metrics for spreadsheets.
func GenerateCSVExport(stats RunStats, report AccuracyReport, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString("metric,value\n")
	builder.WriteString(fmt.Sprintf("total_races,%d\n", stats.TotalRaces))
	builder.WriteString(fmt.Sprintf("skipped_races,%d\n", stats.SkippedRaces))
	builder.WriteString(fmt.Sprintf("retrains,%d\n", stats.Retrains))
	builder.WriteString(fmt.Sprintf("win_hit_rate,%.4f\n", report.WinHitRate))
	for _, k := range sortedKeys(report.PrecisionAtK) {
		builder.WriteString(fmt.Sprintf("precision_at_%d,%.4f\n", k, report.PrecisionAtK[k]))
	}
	for _, rank := range sortedKeys(report.HitRateByRank) {
		builder.WriteString(fmt.Sprintf("hit_rate_rank_%d,%.4f\n", rank, report.HitRateByRank[rank]))
	}

	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
