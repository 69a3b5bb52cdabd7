/**
 * @description
 * Redis connection manager using go-redis.
 * Holds the shared export table and carries snapshot refresh requests between processes.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 */

package db

import (
	"context"
	"errors"
	"time"

	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ErrRedisDisabled is returned when REDIS_URL is empty.
var ErrRedisDisabled = errors.New("redis is not configured")

// ConnectRedis initializes the Redis client
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, ErrRedisDisabled
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	applyRedisDefaults(opt)

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), opt.DialTimeout)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("Connected to Redis")
	return client, nil
}

// applyRedisDefaults fills timeouts and pool sizes the URL left unset
func applyRedisDefaults(opt *redis.Options) {
	if opt.ReadTimeout == 0 {
		opt.ReadTimeout = 3 * time.Second
	}
	if opt.WriteTimeout == 0 {
		opt.WriteTimeout = 3 * time.Second
	}
	if opt.DialTimeout == 0 {
		opt.DialTimeout = 5 * time.Second
	}
	if opt.MaxRetries == 0 {
		opt.MaxRetries = 2
	}
	if opt.MinRetryBackoff == 0 {
		opt.MinRetryBackoff = 200 * time.Millisecond
	}
	if opt.MaxRetryBackoff == 0 {
		opt.MaxRetryBackoff = 2 * time.Second
	}
	if opt.PoolSize == 0 {
		opt.PoolSize = 10
	}
}
