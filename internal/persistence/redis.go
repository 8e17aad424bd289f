package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eventhub-dev/eventhub/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
	logger *zap.Logger
}

// NewRedis builds a client from the configured URL.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	return &Redis{Client: redis.NewClient(opts), logger: logger}, nil
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	if err := r.Client.Ping(ctx).Err(); err != nil {
		return err
	}
	r.logger.Info("connected to redis")
	return nil
}
