// Package session persists per-user journey state in Redis. State is stored
// as JSON under a prefixed key with a sliding TTL, so an abandoned journey
// expires on its own and a returning user within the TTL resumes where they
// left off.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eprcore/registration-portal/internal/config"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/pkg/errors"
)

// NewRedisClient connects to Redis using the portal configuration and
// verifies the connection with a ping before returning.
func NewRedisClient(cfg config.RedisConfig, logger logging.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrap(err, errors.ErrCodeSessionUnavailable, "failed to connect to session store")
	}

	logger.Info("session store connected", logging.String("addr", cfg.Addr))
	return rdb, nil
}

// Store reads and writes JSON session state.
type Store struct {
	client redis.UniversalClient
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

// NewStore wraps an established Redis client as a session store. The key
// prefix and TTL come from configuration, falling back to the portal
// defaults when unset.
func NewStore(client redis.UniversalClient, cfg config.RedisConfig, logger logging.Logger) *Store {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = config.DefaultRedisKeyPrefix
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = config.DefaultSessionTTL
	}
	return &Store{
		client: client,
		logger: logger,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *Store) fullKey(key string) string {
	return s.prefix + key
}

// Get loads the session state stored under key into dest. A missing key is
// not an error: Get reports found=false and leaves dest untouched.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSessionUnavailable, "failed to read session state")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// Stored state from an incompatible older build. Drop it so the
		// user restarts the journey instead of looping on the same error.
		s.logger.Warn("dropping undecodable session state", logging.String("key", key), logging.Err(err))
		s.client.Del(ctx, s.fullKey(key))
		return false, nil
	}
	return true, nil
}

// Save stores value under key and resets the session TTL.
func (s *Store) Save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionCorrupt, "failed to encode session state")
	}
	if err := s.client.Set(ctx, s.fullKey(key), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionUnavailable, "failed to write session state")
	}
	return nil
}

// Delete removes the session state stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionUnavailable, "failed to delete session state")
	}
	return nil
}

// Touch extends the TTL of an existing session without rewriting it. It is a
// no-op when the key has already expired.
func (s *Store) Touch(ctx context.Context, key string) error {
	if err := s.client.Expire(ctx, s.fullKey(key), s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeSessionUnavailable, "failed to refresh session state")
	}
	return nil
}
