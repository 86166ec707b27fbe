package config

import "time"

// Default values applied to any Config field left unset by the file and
// environment. Defaults never overwrite an explicitly configured value.
const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "epr:"
	DefaultSessionTTL     = 20 * time.Minute

	DefaultBackendTimeout      = 30 * time.Second
	DefaultBackendRetryMax     = 3
	DefaultBackendRetryWaitMin = 500 * time.Millisecond
	DefaultBackendRetryWaitMax = 5 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills in defaults for every zero-valued field of cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.SessionTTL == 0 {
		cfg.Redis.SessionTTL = DefaultSessionTTL
	}

	applyBackendDefaults(&cfg.SubmissionAPI)
	applyBackendDefaults(&cfg.PaymentAPI)

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

func applyBackendDefaults(b *BackendConfig) {
	if b.Timeout == 0 {
		b.Timeout = DefaultBackendTimeout
	}
	if b.RetryMax == 0 {
		b.RetryMax = DefaultBackendRetryMax
	}
	if b.RetryWaitMin == 0 {
		b.RetryWaitMin = DefaultBackendRetryWaitMin
	}
	if b.RetryWaitMax == 0 {
		b.RetryWaitMax = DefaultBackendRetryWaitMax
	}
}
