package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/roomledger/roomledger/internal/config"
)

var Module = fx.Module("redis",
	fx.Provide(NewClient),
)

// NewClient connects to redis when an address is configured. Quota counting
// is the only consumer and degrades gracefully, so a missing address yields a
// nil client rather than an error.
func NewClient(cfg config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
