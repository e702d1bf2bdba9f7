package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/gauravpatil09/rating-app/internal/config"
)

// ConnectRedis returns a redis client for the average-rating cache, or nil
// when no address is configured. The cache is strictly optional.
func ConnectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.Warnf("redis unreachable, running without cache: %v", err)
		_ = rdb.Close()
		return nil
	}

	logrus.Info("redis connected")
	return rdb
}
