package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"bidpilot/internal/config/configs"
)

// NewRedisClient connects to Redis with the provided configuration and
// verifies connectivity with a 5 second ping timeout. The caller must close
// the returned client when it is no longer needed.
func NewRedisClient(ctx context.Context, cfg configs.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctxPing).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
