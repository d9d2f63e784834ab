// Package utils provides the Redis connection helper with unified env reading.
package utils

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"rep-api/internal/logger"
)

// OpenRedis opens a client from explicit address and password; kept for tests
// and manual injection. Empty address disables caching and returns nil.
func OpenRedis(addr, pass string) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass})
}

// OpenRedisFromEnv opens a client from REDIS_HOST/REDIS_PORT/REDIS_PASS with
// optional REDIS_DB selection. REDIS_ENABLED must be "true"; otherwise the
// service runs without a cache and callers treat the nil client as disabled.
func OpenRedisFromEnv() *redis.Client {
	if os.Getenv("REDIS_ENABLED") != "true" {
		return nil
	}
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	addr := host + ":" + port
	pass := os.Getenv("REDIS_PASS")
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		// ignore parse error silently, default 0
		if n, _ := strconv.Atoi(v); n >= 0 {
			db = n
		}
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}
