// file: internals/features/akademik/peta_blok/service/cache.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache: penyimpanan view model terbangun. Implementasi nil-safe lewat NewRedisCache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

type redisCache struct {
	rdb *redis.Client
}

// NewRedisCache → nil bila Redis tidak dikonfigurasi (cache dimatikan).
func NewRedisCache(rdb *redis.Client) Cache {
	if rdb == nil {
		return nil
	}
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[PETA-BLOK] cache get %s gagal: %v", key, err)
		}
		return nil, false
	}
	return b, true
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Printf("[PETA-BLOK] cache set %s gagal: %v", key, err)
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[PETA-BLOK] cache del gagal: %v", err)
	}
}
