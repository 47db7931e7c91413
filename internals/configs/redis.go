package configs

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RDB nil berarti cache dimatikan (REDIS_ADDR kosong atau ping gagal)
var RDB *redis.Client

func ConnectRedis() {
	addr := GetEnv("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR belum diset, cache peta blok dimatikan")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASSWORD"),
		DB:       GetEnvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("❌ Gagal konek Redis (%s): %v, cache dimatikan", addr, err)
		_ = client.Close()
		return
	}

	RDB = client
	log.Println("✅ Redis connected.")
}
