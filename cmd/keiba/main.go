// Package main provides the keiba CLI: race prediction, walk-forward
// backtesting, bet simulation, and model training against an external
// model service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-engine/internal/config"
	"github.com/yourusername/keiba-engine/internal/database"
	"github.com/yourusername/keiba-engine/internal/factors"
	"github.com/yourusername/keiba-engine/internal/logger"
	"github.com/yourusername/keiba-engine/internal/ml"
	"github.com/yourusername/keiba-engine/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	log        *logrus.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "keiba",
	Short: "Horse race prediction and backtesting engine",
	Long: `keiba scores race cards with seven handicapping factors, blends in
a gradient-boosting model served over HTTP, and replays historical
periods walk-forward to measure prediction and betting performance.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.LoadSecretsFromAWS(cmd.Context(), cfg); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		log = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("keiba %s (%s)\n", Version, GitCommit)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDataSource connects to the database and wraps the repositories
// as the unified read source. The caller closes the returned DB.
func openDataSource(ctx context.Context) (*database.DB, *repository.DataSource, error) {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err := repository.NewRepositories(db, cfg.PayoutCacheTTL())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repository.NewDataSource(repos), nil
}

// buildFactorStack assembles the cache, combiner, and calculator from
// configuration.
func buildFactorStack() (*factors.Cache, *factors.Combiner, *factors.CachedCalculator, error) {
	cache, err := factors.NewCache(cfg.Prediction.CacheCapacity)
	if err != nil {
		return nil, nil, nil, err
	}

	weights := factors.SevenFactorWeights
	if len(cfg.Prediction.FactorWeights) > 0 {
		weights = cfg.Prediction.FactorWeights
	}
	combiner, err := factors.NewCombiner(weights)
	if err != nil {
		return nil, nil, nil, err
	}

	calculator, err := factors.NewCachedCalculator(cache, combiner, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cache, combiner, calculator, nil
}

// newModelClient builds the HTTP client for the model service.
func newModelClient() (*ml.ModelClient, error) {
	return ml.NewModelClient(ml.ModelClientConfig{
		BaseURL:        cfg.MLService.URL,
		RequestTimeout: cfg.MLRequestTimeout(),
		MaxRetries:     cfg.MLService.RetryAttempts,
		RequestsPerSec: cfg.MLService.RequestsPerSec,
	}, log)
}

// withPredictionCache memoizes model calls when ml_service
// cache_ttl_seconds is set. Simulations and repeated predictions hit
// the service once per distinct feature matrix.
func withPredictionCache(p ml.Predictor) ml.Predictor {
	if p == nil || cfg.MLService.CacheTTLSeconds <= 0 {
		return p
	}
	return ml.NewCachedPredictor(p, cfg.PredictionCacheTTL(), log)
}

func trainingParams() ml.TrainingParams {
	if cfg.Backtest.LightweightTraining {
		return ml.LightweightParams()
	}
	return ml.NormalParams()
}
