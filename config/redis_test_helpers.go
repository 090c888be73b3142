package config

import (
	"sync"

	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest swaps in client (usually a redismock client) for the
// rate limiter and audit mirror. Tests only.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest clears the client so ConnectRedis runs again.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
