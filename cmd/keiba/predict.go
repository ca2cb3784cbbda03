package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-engine/internal/metrics"
	"github.com/yourusername/keiba-engine/internal/ml"
	"github.com/yourusername/keiba-engine/internal/prediction"
)

var (
	predictModelID string
	predictNoModel bool
)

func init() {
	predictCmd.Flags().StringVar(&predictModelID, "model-id", "", "Trained model handle to blend in (see 'keiba train')")
	predictCmd.Flags().BoolVar(&predictNoModel, "no-model", false, "Rank on factor scores alone")
}

var predictCmd = &cobra.Command{
	Use:   "predict <race-id>",
	Short: "Score one race card and print the ranked predictions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		raceID := args[0]

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
			prediction.WithMarketDataMode(prediction.MarketDataMode(cfg.Prediction.MarketDataMode)),
			prediction.WithHorseSource(source),
		)
		if err != nil {
			return err
		}

		var model ml.Predictor
		if predictModelID != "" && !predictNoModel {
			client, err := newModelClient()
			if err != nil {
				return err
			}
			model = withPredictionCache(client.Model(predictModelID))
		}

		card, err := source.GetRaceCard(ctx, raceID)
		if err != nil {
			return err
		}

		start := time.Now()
		results, err := service.PredictRace(ctx, card, model)
		if err != nil {
			return err
		}
		metrics.RecordPrediction(time.Since(start).Seconds())
		if len(results) == 0 {
			fmt.Fprintf(os.Stderr, "no predictions for race %s (debut race)\n", raceID)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}
