package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second

	keyPrefix = "storypdf:story:"
)

// Redis stores finished documents in Redis with a TTL, so several server
// instances share them. Single-flight applies within one process.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewRedisClient parses a Redis URL, tunes the pool and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	options.PoolSize = 10
	options.MinIdleConns = 1
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("addr", options.Addr).Int("pool_size", options.PoolSize).Msg("redis client connected")
	return client, nil
}

// NewRedis creates a Redis-backed cache. A ttl of zero keeps entries forever.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// GetOrCompute returns the stored value for key, computing and storing it if absent.
// A Redis outage degrades to computing without caching.
func (r *Redis) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]byte, error) {
	log := zerolog.Ctx(ctx)

	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	switch {
	case err == nil:
		return data, nil
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	return shared(ctx, &r.group, key, func(ctx context.Context) ([]byte, error) {
		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return data, nil
	})
}

// Close releases the Redis connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
