// Package persistence 按配置选择本地缓存的存储后端
package persistence

import (
	"context"
	"fmt"

	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/repository"
	"veo-story-studio/internal/infrastructure/persistence/memory"
	"veo-story-studio/internal/infrastructure/persistence/postgres"
	"veo-story-studio/internal/infrastructure/persistence/redis"
	"veo-story-studio/internal/infrastructure/persistence/sqlite"
	"veo-story-studio/pkg/logger"
)

// Backend 已打开的存储后端
type Backend struct {
	Driver string
	KV     repository.KVStore
	// Limiter 仅 redis 驱动下非空
	Limiter *redis.RateLimiter
}

// HealthChecker 后端的健康检查能力，不支持时返回 nil
func (b *Backend) HealthChecker() repository.HealthChecker {
	if hc, ok := b.KV.(repository.HealthChecker); ok {
		return hc
	}
	return nil
}

// Close 关闭后端连接
func (b *Backend) Close() error {
	return b.KV.Close()
}

// Open 按 cfg.Driver 打开后端，空驱动视为 sqlite
func Open(ctx context.Context, cfg *config.StorageConfig) (*Backend, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = config.DriverSQLite
	}

	b := &Backend{Driver: driver}
	switch driver {
	case config.DriverSQLite:
		kv, err := sqlite.NewKVStore(&cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		b.KV = kv

	case config.DriverRedis:
		client, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		b.KV = redis.NewKVStore(client)
		b.Limiter = redis.NewRateLimiter(client)

	case config.DriverPostgres:
		client, err := postgres.NewClient(&cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		kv, err := postgres.NewKVStore(ctx, client, cfg.Postgres.Table)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		b.KV = kv

	case config.DriverMemory:
		b.KV = memory.NewKVStore()

	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}

	logger.Info(ctx, "storage backend opened", "driver", driver)
	return b, nil
}
