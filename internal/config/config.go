// Package config defines all configuration structures for the registration
// portal. No I/O or parsing logic lives here, only plain data types and
// validation; loading is in loader.go.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig holds connection parameters for the session store.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
}

// BackendConfig holds connection parameters for one downstream service
// (the submission service or the payment-calculation service).
type BackendConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryMax     int           `mapstructure:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// FeatureConfig holds runtime feature toggles. Toggles are read once at the
// call site and passed into domain functions as plain parameters so that the
// derivation logic stays pure.
type FeatureConfig struct {
	// ShowRegulatorDecision enables the decision-aware branch of the
	// packaging period status derivation.
	ShowRegulatorDecision bool `mapstructure:"show_regulator_decision"`

	// ShowComplianceSchemeMembership enables per-member fee breakdowns on
	// compliance-scheme journeys.
	ShowComplianceSchemeMembership bool `mapstructure:"show_compliance_scheme_membership"`
}

// PeriodConfig is one submission period as declared in configuration.
// Month names accept full English names and common abbreviations.
type PeriodConfig struct {
	Year            int       `mapstructure:"year"`
	StartMonth      string    `mapstructure:"start_month"`
	EndMonth        string    `mapstructure:"end_month"`
	DataPeriodLabel string    `mapstructure:"data_period_label"`
	ActiveFrom      time.Time `mapstructure:"active_from"`
	Deadline        time.Time `mapstructure:"deadline"`
}

// Config is the root configuration structure for the portal.
type Config struct {
	Server        ServerConfig   `mapstructure:"server"`
	Redis         RedisConfig    `mapstructure:"redis"`
	SubmissionAPI BackendConfig  `mapstructure:"submission_api"`
	PaymentAPI    BackendConfig  `mapstructure:"payment_api"`
	Log           LogConfig      `mapstructure:"log"`
	Features      FeatureConfig  `mapstructure:"features"`
	Periods       []PeriodConfig `mapstructure:"periods"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; any error is fatal at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}
	if c.Redis.SessionTTL <= 0 {
		return fmt.Errorf("config: redis.session_ttl must be positive, got %s", c.Redis.SessionTTL)
	}

	if c.SubmissionAPI.BaseURL == "" {
		return fmt.Errorf("config: submission_api.base_url is required")
	}
	if c.PaymentAPI.BaseURL == "" {
		return fmt.Errorf("config: payment_api.base_url is required")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if len(c.Periods) == 0 {
		return fmt.Errorf("config: at least one submission period is required")
	}
	for i, p := range c.Periods {
		if p.Year < 2000 || p.Year > 2100 {
			return fmt.Errorf("config: periods[%d].year %d is out of range [2000, 2100]", i, p.Year)
		}
		if p.StartMonth == "" || p.EndMonth == "" {
			return fmt.Errorf("config: periods[%d] start_month and end_month are required", i)
		}
		if p.DataPeriodLabel == "" {
			return fmt.Errorf("config: periods[%d].data_period_label is required", i)
		}
	}

	return nil
}
