package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"openflag/internal/domain/flags"
	"openflag/pkg/logger"
)

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL enables the Redis backend when non-empty.
	RedisURL string

	// TTL bounds entry lifetime in either backend.
	TTL time.Duration
}

// New creates the flag cache for the service: Redis when configured and
// reachable, otherwise the in-process backend. An unreachable Redis is a
// logged degradation, not a startup failure.
func New(ctx context.Context, cfg Config, log *logger.Logger) flags.Cache {
	if log == nil {
		log = logger.Nop()
	}

	if cfg.RedisURL == "" {
		return NewMemory(cfg.TTL)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Warnw("invalid redis url, falling back to in-memory cache", "error", err)
		return NewMemory(cfg.TTL)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnw("redis unreachable, falling back to in-memory cache", "error", err)
		_ = rdb.Close()
		return NewMemory(cfg.TTL)
	}

	log.Infow("using redis flag cache", "ttl", cfg.TTL)
	return NewRedis(rdb, cfg.TTL, log)
}
