package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"openflag/internal/domain/flags"
	"openflag/pkg/logger"
)

// keyPrefix namespaces flag entries in Redis.
const keyPrefix = "openflag:flag:"

// Redis caches flags in Redis with a server-enforced TTL. All operations
// are best-effort: Redis failures and corrupt payloads degrade to misses.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRedis creates a Redis-backed cache around an existing client.
func NewRedis(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	if log == nil {
		log = logger.Nop()
	}
	return &Redis{rdb: rdb, ttl: ttl, log: log.WithComponent("redis-cache")}
}

// Get returns the cached flag for key. Expiry is enforced by Redis.
func (r *Redis) Get(ctx context.Context, key string) (*flags.Flag, bool) {
	data, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.Debugw("redis get failed", "key", key, "error", err)
		}
		return nil, false
	}

	var flag flags.Flag
	if err := json.Unmarshal(data, &flag); err != nil {
		// Corrupt payload reads as a miss; the next Set repairs it.
		r.log.Warnw("corrupt cache payload", "key", key, "error", err)
		return nil, false
	}
	return &flag, true
}

// Set stores flag under its key with the configured TTL.
func (r *Redis) Set(ctx context.Context, flag *flags.Flag) {
	data, err := json.Marshal(flag)
	if err != nil {
		r.log.Warnw("marshal flag failed", "key", flag.Key, "error", err)
		return
	}
	if err := r.rdb.SetEx(ctx, keyPrefix+flag.Key, data, r.ttl).Err(); err != nil {
		r.log.Debugw("redis set failed", "key", flag.Key, "error", err)
	}
}

// Delete removes the entry for key.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		r.log.Debugw("redis del failed", "key", key, "error", err)
	}
}

// Clear removes every flag entry under the prefix.
func (r *Redis) Clear(ctx context.Context) {
	iter := r.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.log.Debugw("redis scan failed", "error", err)
		return
	}
	if len(keys) > 0 {
		if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
			r.log.Debugw("redis clear failed", "error", err)
		}
	}
}

var _ flags.Cache = (*Redis)(nil)
