// Package memory 提供进程内 KVStore 实现，用于测试与无持久化运行
package memory

import (
	"context"
	"sync"

	"veo-story-studio/internal/domain/repository"
)

// KVStore 内存键值存储
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVStore 创建内存键值存储
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

// Get 读取键
func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set 写入键
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete 删除键
func (s *KVStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Keys 当前所有键（无序）
func (s *KVStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// HealthCheck 始终健康
func (s *KVStore) HealthCheck(context.Context) error {
	return nil
}

// Close 无需释放资源
func (s *KVStore) Close() error {
	return nil
}

var (
	_ repository.KVStore       = (*KVStore)(nil)
	_ repository.HealthChecker = (*KVStore)(nil)
)
