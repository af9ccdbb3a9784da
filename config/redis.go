package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance
var RedisClient *redis.Client

//Accessed as config.RedisClient in other files

// InitRedis configures RedisClient from REDIS_ADDR. An empty address leaves
// the client nil, which disables the shared snapshot cache.
func InitRedis() {
	addr := GetEnv("REDIS_ADDR", "")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    GetEnv("REDIS_PASS", ""),
		DB:          GetEnvInt("REDIS_DB", 0),
		DialTimeout: 2 * time.Second,
	})
}

// PingRedis drops RedisClient when the server cannot be reached.
func PingRedis() bool {
	if RedisClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(RedisCtx(), 2*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient = nil
		return false
	}
	return true
}

func RedisCtx() context.Context {
	return context.Background()
}
