// Package redisstore builds the Redis client shared by the rate limiter and
// the response cache.
package redisstore

import (
	"context"
	"time"

	"artifact-catalog-service/internal/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// NewClient connects to Redis. It returns nil when Redis is disabled or does
// not answer a ping; callers then run without rate limiting and caching.
func NewClient(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).WithField("addr", cfg.Addr).Warn("redis unavailable, rate limiting and caching disabled")
		_ = client.Close()
		return nil
	}

	log.WithField("addr", cfg.Addr).Info("connected to redis")
	return client
}
