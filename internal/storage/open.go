package storage

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/db"

	"github.com/redis/go-redis/v9"
)

// Open builds the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return NewMemoryStore(), nil
	case config.DriverFile:
		return OpenFile(cfg.StorePath)
	case config.DriverPostgres, config.DriverSQLite:
		conn, err := db.Open(cfg)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(conn), nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
