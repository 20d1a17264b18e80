package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"veo-story-studio/internal/domain/repository"
	"veo-story-studio/pkg/metrics"
)

// DefaultTable 默认键值表名
const DefaultTable = "veo_kv_store"

// kvRow 键值表行
type kvRow struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// KVStore 以单表存储本地缓存键值
type KVStore struct {
	client *Client
	table  string
}

// NewKVStore 创建键值存储，表不存在时自动创建
func NewKVStore(ctx context.Context, client *Client, table string) (*KVStore, error) {
	if table == "" {
		table = DefaultTable
	}
	s := &KVStore{client: client, table: table}
	if err := client.db.WithContext(ctx).Exec(createTableSQL(table)).Error; err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return s, nil
}

// createTableSQL 建表语句，表名经过标识符转义
func createTableSQL(table string) string {
	return "CREATE TABLE IF NOT EXISTS " + pq.QuoteIdentifier(table) + ` (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
}

func (s *KVStore) tx(ctx context.Context) *gorm.DB {
	return s.client.db.WithContext(ctx).Table(s.table)
}

// Get 读取键
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "postgres.KVStore.Get",
		trace.WithAttributes(attribute.String("kv.key", key)))
	defer span.End()
	defer observe("get", time.Now())

	var row kvRow
	if err := s.tx(ctx).Where("key = ?", key).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrKeyNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return row.Value, nil
}

// Set 写入键，已存在时覆盖
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "postgres.KVStore.Set",
		trace.WithAttributes(
			attribute.String("kv.key", key),
			attribute.Int("kv.size", len(value)),
		))
	defer span.End()
	defer observe("set", time.Now())

	row := kvRow{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.tx(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
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
	ctx, span := tracer.Start(ctx, "postgres.KVStore.Delete",
		trace.WithAttributes(attribute.Int("kv.key_count", len(keys))))
	defer span.End()
	defer observe("delete", time.Now())

	if err := s.tx(ctx).Where("key IN ?", keys).Delete(&kvRow{}).Error; err != nil {
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
	metrics.KVOperationDuration.WithLabelValues("postgres", op).Observe(time.Since(start).Seconds())
}

var (
	_ repository.KVStore       = (*KVStore)(nil)
	_ repository.HealthChecker = (*KVStore)(nil)
)
