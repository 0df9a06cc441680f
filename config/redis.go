package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectRedis opens and pings the client for url.
func ConnectRedis(ctx context.Context, url string, log *zap.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("config: invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)

	res, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("config: failed to connect to redis: %w", err)
	}
	log.Info("connected to redis", zap.String("ping", res))
	return client, nil
}
