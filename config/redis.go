package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis initializes a singleton Redis client when REDIS_ENABLED is set.
// Returns the client (or nil) and an error if the ping failed.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		cfg, loadErr := Load()
		if loadErr != nil {
			err = loadErr
			return
		}
		if !cfg.RedisEnabled || cfg.IsTest() {
			return
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			redisClient = nil
			err = fmt.Errorf("redis ping failed: %w", err)
			return
		}

		redisClient = rdb
		zap.L().Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	})
	return redisClient, err
}

// GetRedisClient returns the initialized Redis client (nil if ConnectRedis failed or was not called).
func GetRedisClient() *redis.Client {
	return redisClient
}
