package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the optional redis client used for dashboard caching.
// Returns nil when no address is configured; callers must treat a nil
// client as "cache disabled".
func ConnectRedis(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable at %s, caching disabled: %v", cfg.RedisAddr, err)
		return nil
	}

	log.Printf("✅ Redis connected [%s]", cfg.RedisAddr)
	return rdb
}
