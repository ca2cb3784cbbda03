package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/keiba-engine/internal/backtest"
	"github.com/yourusername/keiba-engine/internal/health"
	"github.com/yourusername/keiba-engine/internal/metrics"
	"github.com/yourusername/keiba-engine/internal/scheduler"
)

var serveHealthPort string

func init() {
	serveCmd.Flags().StringVar(&serveHealthPort, "health-port", "8080", "Port for the health check server")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the retraining scheduler with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Scheduler.Enabled {
			return fmt.Errorf("scheduler is disabled in configuration")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, source, err := openDataSource(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		_, combiner, calculator, err := buildFactorStack()
		if err != nil {
			return err
		}

		client, err := newModelClient()
		if err != nil {
			return err
		}
		builder, err := backtest.NewTrainingDataBuilder(source, calculator, combiner, log)
		if err != nil {
			return err
		}

		sched, err := scheduler.NewScheduler(builder, client, trainingParams(), log)
		if err != nil {
			return err
		}
		if err := sched.ScheduleRetraining(cfg.Scheduler.RetrainSpec); err != nil {
			return err
		}

		healthServer := health.NewServer(health.Config{
			ServiceName: "keiba-engine",
			Version:     Version,
			Port:        serveHealthPort,
			Logger:      log,
		})
		healthServer.AddCheck("database", db.Ping)
		healthServer.AddCheck("model_service", client.HealthCheck)
		if err := healthServer.Start(ctx); err != nil {
			return err
		}

		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			metricsServer := &http.Server{
				Addr:        ":" + strconv.Itoa(cfg.Metrics.Port),
				Handler:     mux,
				ReadTimeout: 5 * time.Second,
			}
			go func() {
				log.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
				if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.WithError(err).Error("Metrics server error")
				}
			}()
			defer metricsServer.Close()
		}

		// Fit an initial model so the first scheduled run is not the
		// first time the daemon has one.
		if err := sched.RetrainNow(ctx); err != nil {
			log.WithError(err).Warn("Initial training failed, waiting for the next scheduled run")
		}

		if err := sched.Start(); err != nil {
			return err
		}
		healthServer.SetReady(true)
		log.WithField("next_run", sched.GetNextRun()).Info("Scheduler daemon running")

		<-ctx.Done()

		healthServer.SetReady(false)
		if err := sched.Stop(); err != nil {
			return err
		}
		return nil
	},
}
