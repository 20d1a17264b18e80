package redis

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"veo-story-studio/internal/domain/repository"
	"veo-story-studio/pkg/metrics"
)

// KVStore Redis 键值存储，键永不过期
type KVStore struct {
	client *Client
}

// NewKVStore 创建键值存储
func NewKVStore(client *Client) *KVStore {
	return &KVStore{client: client}
}

// Get 读取键
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "redis.KVStore.Get",
		trace.WithAttributes(attribute.String("redis.key", key)))
	defer span.End()
	defer observe("get", time.Now())

	val, err := s.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if IsNil(err) {
			return nil, repository.ErrKeyNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return val, nil
}

// Set 写入键
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "redis.KVStore.Set",
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.Int("redis.size", len(value)),
		))
	defer span.End()
	defer observe("set", time.Now())

	if err := s.client.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// Delete 删除键
func (s *KVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "redis.KVStore.Delete",
		trace.WithAttributes(attribute.Int("redis.key_count", len(keys))))
	defer span.End()
	defer observe("delete", time.Now())

	if err := s.client.rdb.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// HealthCheck 健康检查
func (s *KVStore) HealthCheck(ctx context.Context) error {
	return s.client.HealthCheck(ctx)
}

// Close 关闭连接
func (s *KVStore) Close() error {
	return s.client.Close()
}

func observe(op string, start time.Time) {
	metrics.KVOperationDuration.WithLabelValues("redis", op).Observe(time.Since(start).Seconds())
}

var (
	_ repository.KVStore       = (*KVStore)(nil)
	_ repository.HealthChecker = (*KVStore)(nil)
)
