// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"errors"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("key not found")

// KVStore 本地持久键值存储接口
// 值为 JSON 序列化后的字节，实现需保证单键读写原子
type KVStore interface {
	// Get 读取键，不存在时返回 ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入键（覆盖）
	Set(ctx context.Context, key string, value []byte) error

	// Delete 删除键，不存在时不报错
	Delete(ctx context.Context, keys ...string) error

	// Close 释放底层连接
	Close() error
}

// HealthChecker 可选的健康检查能力
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
