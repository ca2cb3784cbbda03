package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-engine/internal/backtest"
	"github.com/yourusername/keiba-engine/internal/factors"
	"github.com/yourusername/keiba-engine/internal/logger"
	"github.com/yourusername/keiba-engine/internal/metrics"
	"github.com/yourusername/keiba-engine/internal/ml"
	"github.com/yourusername/keiba-engine/internal/prediction"
	"github.com/yourusername/keiba-engine/internal/repository"
	"github.com/yourusername/keiba-engine/internal/simulation"
)

var (
	simulateBetType  string
	simulateFrom     string
	simulateTo       string
	simulateVenues   []string
	simulateModelID  string
	simulateBankroll float64
	simulateMCIters  int
)

func init() {
	simulateCmd.Flags().StringVar(&simulateBetType, "bet-type", "show", "Bet type: show, win, quinella, trio")
	simulateCmd.Flags().StringVar(&simulateFrom, "from", "", "Period start (YYYY-MM-DD)")
	simulateCmd.Flags().StringVar(&simulateTo, "to", "", "Period end (YYYY-MM-DD)")
	simulateCmd.Flags().StringSliceVar(&simulateVenues, "venues", nil, "Restrict to these venues")
	simulateCmd.Flags().StringVar(&simulateModelID, "model-id", "", "Reuse a trained model instead of fitting one at the period start")
	simulateCmd.Flags().Float64Var(&simulateBankroll, "bankroll", 100000, "Starting bankroll in yen for the equity curve")
	simulateCmd.Flags().IntVar(&simulateMCIters, "monte-carlo", 0, "Bootstrap iterations for the return distribution (0 disables)")
	simulateCmd.MarkFlagRequired("from")
	simulateCmd.MarkFlagRequired("to")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a betting strategy against recorded payouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, source, err := openDataSource(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		_, combiner, calculator, err := buildFactorStack()
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

		model, err := resolveSimulationModel(ctx, source, calculator, combiner)
		if err != nil {
			return err
		}
		model = withPredictionCache(model)

		provider, err := simulation.NewServiceProvider(source, service, model)
		if err != nil {
			return err
		}

		summary, err := runSimulation(ctx, source, provider)
		if err != nil {
			return err
		}

		metrics.RecordSimulationRun(summary.BetType, summary.ReturnRate)
		logger.NewRunLogger(log).LogSimulationComplete(
			summary.BetType, summary.TotalRaces, summary.TotalHits, summary.ReturnRate)

		curve := simulation.BuildEquityCurve(summary.Races, simulateBankroll)
		out := struct {
			*simulation.Summary
			FinalBankroll float64                      `json:"final_bankroll"`
			MaxDrawdown   float64                      `json:"max_drawdown"`
			MonteCarlo    *simulation.MonteCarloResult `json:"monte_carlo,omitempty"`
		}{
			Summary:       summary,
			FinalBankroll: curve.FinalBankroll(),
			MaxDrawdown:   curve.MaxDrawdown(),
		}
		if simulateMCIters > 0 && len(summary.Races) > 0 {
			mc, err := simulation.RunMonteCarlo(summary.Races, simulation.MonteCarloConfig{
				Iterations:      simulateMCIters,
				InitialBankroll: simulateBankroll,
			})
			if err != nil {
				return err
			}
			out.MonteCarlo = &mc
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

// resolveSimulationModel reuses a trained handle when given one, and
// otherwise fits a model on everything before the period start. A
// declined fit (too little history) falls back to factor-only.
func resolveSimulationModel(ctx context.Context, source *repository.DataSource, calculator *factors.CachedCalculator, combiner *factors.Combiner) (ml.Predictor, error) {
	client, err := newModelClient()
	if err != nil {
		return nil, err
	}
	if simulateModelID != "" {
		return client.Model(simulateModelID), nil
	}

	cutoff, err := time.Parse("2006-01-02", simulateFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid period start %q: %w", simulateFrom, err)
	}

	builder, err := backtest.NewTrainingDataBuilder(source, calculator, combiner, log)
	if err != nil {
		return nil, err
	}
	features, labels, err := builder.Build(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("build training data: %w", err)
	}

	model, err := client.Train(ctx, features, labels, trainingParams())
	if errors.Is(err, ml.ErrInsufficientTrainingData) {
		log.WithField("samples", len(features)).Warn("Too little history before period, simulating factor-only")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}
	return model, nil
}

func runSimulation(ctx context.Context, source *repository.DataSource, provider simulation.PredictionProvider) (*simulation.Summary, error) {
	switch simulateBetType {
	case "show":
		sim, err := simulation.NewShowSimulator(source, provider, source, log, cfg.Simulation.TopN)
		if err != nil {
			return nil, err
		}
		return sim.SimulatePeriod(ctx, simulateFrom, simulateTo, simulateVenues)
	case "win":
		sim, err := simulation.NewWinSimulator(source, provider, source, log, cfg.Simulation.TopN)
		if err != nil {
			return nil, err
		}
		return sim.SimulatePeriod(ctx, simulateFrom, simulateTo, simulateVenues)
	case "quinella":
		sim, err := simulation.NewQuinellaSimulator(source, provider, source, log)
		if err != nil {
			return nil, err
		}
		return sim.SimulatePeriod(ctx, simulateFrom, simulateTo, simulateVenues)
	case "trio":
		sim, err := simulation.NewTrioSimulator(source, provider, source, log)
		if err != nil {
			return nil, err
		}
		return sim.SimulatePeriod(ctx, simulateFrom, simulateTo, simulateVenues)
	default:
		return nil, fmt.Errorf("unknown bet type %q", simulateBetType)
	}
}
