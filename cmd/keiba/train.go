package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-engine/internal/backtest"
	"github.com/yourusername/keiba-engine/internal/logger"
	"github.com/yourusername/keiba-engine/internal/ml"
)

var trainCutoff string

func init() {
	trainCmd.Flags().StringVar(&trainCutoff, "cutoff", "", "Train on races strictly before this date (YYYY-MM-DD, default: now)")
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit a model on recorded race history and print its handle",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cutoff := time.Now().UTC()
		if trainCutoff != "" {
			var err error
			cutoff, err = time.Parse("2006-01-02", trainCutoff)
			if err != nil {
				return fmt.Errorf("invalid cutoff %q: %w", trainCutoff, err)
			}
		}

		db, source, err := openDataSource(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		_, combiner, calculator, err := buildFactorStack()
		if err != nil {
			return err
		}

		builder, err := backtest.NewTrainingDataBuilder(source, calculator, combiner, log)
		if err != nil {
			return err
		}
		features, labels, err := builder.Build(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("build training data: %w", err)
		}

		client, err := newModelClient()
		if err != nil {
			return err
		}

		params := trainingParams()
		start := time.Now()
		model, err := client.Train(ctx, features, labels, params)
		if errors.Is(err, ml.ErrInsufficientTrainingData) {
			return fmt.Errorf("not enough history before %s: %w", cutoff.Format("2006-01-02"), err)
		}
		if err != nil {
			return fmt.Errorf("train model: %w", err)
		}

		handle, ok := model.(interface{ ModelID() string })
		if !ok {
			return fmt.Errorf("trained model has no service-side handle")
		}

		logger.NewMLLogger(log).LogModelTraining(handle.ModelID(), len(features), time.Since(start).Seconds(), map[string]interface{}{
			"num_leaves":     params.NumLeaves,
			"learning_rate":  params.LearningRate,
			"num_iterations": params.NumIterations,
		})
		fmt.Println(handle.ModelID())
		return nil
	},
}
