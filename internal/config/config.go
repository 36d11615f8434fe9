// Package config provides configuration management for the matchup engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Calibration CalibrationConfig `mapstructure:"calibration" validate:"required"`
	Engine      EngineConfig      `mapstructure:"engine" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the connection to the ranking pipeline's store
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// CalibrationConfig selects where calibration documents come from. Exactly
// one of Dir or BaseURL should be set; Dir wins when both are present.
type CalibrationConfig struct {
	Dir            string  `mapstructure:"dir"`
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gt=0"`
}

// EngineConfig represents prediction engine tuning
type EngineConfig struct {
	FormWindow      int `mapstructure:"form_window" validate:"required,gt=0"`
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize    int `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// ServerConfig represents the public HTTP API
type ServerConfig struct {
	Port              int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort        int     `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	BurstSize         int     `mapstructure:"burst_size" validate:"required,gt=0"`
}

// SchedulerConfig represents background maintenance jobs. WatchedPairs are
// "teamAID:teamBID" entries kept warm in the prediction cache.
type SchedulerConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	CacheFlushCron     string   `mapstructure:"cache_flush_cron" validate:"required"`
	WarmupIntervalSecs int      `mapstructure:"warmup_interval_seconds" validate:"required,gt=0"`
	WatchedPairs       []string `mapstructure:"watched_pairs"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
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
