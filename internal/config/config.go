// Package config provides configuration management for the keiba engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	MLService  MLServiceConfig  `mapstructure:"ml_service" validate:"required"`
	Prediction PredictionConfig `mapstructure:"prediction" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// MLServiceConfig represents the external model service configuration
type MLServiceConfig struct {
	URL                   string  `mapstructure:"url" validate:"required,url"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RequestsPerSec        float64 `mapstructure:"requests_per_sec" validate:"gt=0"`
	CacheTTLSeconds       int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// PredictionConfig represents scoring and ranking configuration
type PredictionConfig struct {
	Alpha            float64            `mapstructure:"alpha" validate:"gte=0,lte=1"`
	PastResultsLimit int                `mapstructure:"past_results_limit" validate:"required,gt=0"`
	MarketDataMode   string             `mapstructure:"market_data_mode" validate:"required,oneof=live historical"`
	CacheCapacity    int                `mapstructure:"cache_capacity" validate:"required,gt=0"`
	FactorWeights    map[string]float64 `mapstructure:"factor_weights"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate           string `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate             string `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	RetrainInterval     string `mapstructure:"retrain_interval" validate:"required,oneof=daily weekly monthly"`
	LightweightTraining bool   `mapstructure:"lightweight_training"`
}

// SimulationConfig represents bet simulation configuration
type SimulationConfig struct {
	TopN                  int `mapstructure:"top_n" validate:"required,gt=0"`
	PayoutCacheTTLSeconds int `mapstructure:"payout_cache_ttl_seconds" validate:"gte=0"`
}

// SchedulerConfig represents the periodic retraining schedule
type SchedulerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	RetrainSpec  string `mapstructure:"retrain_spec"`
	TrainingDays int    `mapstructure:"training_days" validate:"omitempty,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig represents the AWS Secrets Manager source
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// MLRequestTimeout returns the model service request timeout
func (c *Config) MLRequestTimeout() time.Duration {
	return time.Duration(c.MLService.RequestTimeoutSeconds) * time.Second
}

// PredictionCacheTTL returns the model prediction cache TTL. Zero
// disables caching.
func (c *Config) PredictionCacheTTL() time.Duration {
	return time.Duration(c.MLService.CacheTTLSeconds) * time.Second
}

// PayoutCacheTTL returns the payout cache TTL
func (c *Config) PayoutCacheTTL() time.Duration {
	return time.Duration(c.Simulation.PayoutCacheTTLSeconds) * time.Second
}
