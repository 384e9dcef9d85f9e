package rdx

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

var Ctx = context.Background()

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

func RdxHset(hash, field, value string) error {
	return Conn.HSet(Ctx, hash, field, value).Err()
}

func RdxHget(hash, field string) (string, error) {
	return Conn.HGet(Ctx, hash, field).Result()
}

func RdxHdel(hash, field string) error {
	return Conn.HDel(Ctx, hash, field).Err()
}

// CacheGet returns the cached payload for key, or "" on miss. Cache
// errors are logged and treated as misses so the caller always falls
// through to the origin.
func CacheGet(key string) string {
	val, err := Conn.Get(Ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis get %s: %v", key, err)
		}
		return ""
	}
	return val
}

func CacheSet(key, value string, ttl time.Duration) {
	if err := Conn.Set(Ctx, key, value, ttl).Err(); err != nil {
		log.Printf("redis set %s: %v", key, err)
	}
}
