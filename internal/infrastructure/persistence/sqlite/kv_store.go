// Package sqlite 提供基于 SQLite 文件的本地缓存后端（默认驱动）
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite"

	"veo-story-studio/internal/config"
	"veo-story-studio/internal/domain/repository"
	"veo-story-studio/pkg/metrics"
)

var tracer = otel.Tracer("sqlite")

// KVStore SQLite 键值存储
type KVStore struct {
	db   *sql.DB
	path string
}

// NewKVStore 打开（或创建）数据库文件并建表
func NewKVStore(cfg *config.SQLiteConfig) (*KVStore, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 单连接串行化写入，避免 SQLITE_BUSY
	db.SetMaxOpenConns(1)

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busy.Milliseconds()),
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	s := &KVStore{db: db, path: cfg.Path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *KVStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	return err
}

// Get 读取键
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "sqlite.KVStore.Get",
		trace.WithAttributes(attribute.String("kv.key", key)))
	defer span.End()
	defer observe("get", time.Now())

	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrKeyNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return value, nil
}

// Set 写入键
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := tracer.Start(ctx, "sqlite.KVStore.Set",
		trace.WithAttributes(
			attribute.String("kv.key", key),
			attribute.Int("kv.size", len(value)),
		))
	defer span.End()
	defer observe("set", time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// Delete 删除键，多个键在同一事务内删除
func (s *KVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, span := tracer.Start(ctx, "sqlite.KVStore.Delete",
		trace.WithAttributes(attribute.Int("kv.key_count", len(keys))))
	defer span.End()
	defer observe("delete", time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, k); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
			}
			span.RecordError(err)
			return fmt.Errorf("failed to delete key: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// HealthCheck 健康检查
func (s *KVStore) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Close 关闭数据库
func (s *KVStore) Close() error {
	return s.db.Close()
}

func observe(op string, start time.Time) {
	metrics.KVOperationDuration.WithLabelValues("sqlite", op).Observe(time.Since(start).Seconds())
}

var (
	_ repository.KVStore       = (*KVStore)(nil)
	_ repository.HealthChecker = (*KVStore)(nil)
)
