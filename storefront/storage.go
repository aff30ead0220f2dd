// Package storefront holds the shopper-side state of the store: cart,
// wishlist, checkout summary and login state. Every collection lives in a
// key/value Storage as a JSON document, the way a browser keeps it in
// localStorage, so the same state can be backed by memory or by Redis.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Keys of the persisted documents. They match the browser's localStorage keys.
const (
	CartKey     = "wa_cart"
	WishlistKey = "wishlist"
	TokenKey    = "token"
	UserKey     = "user"
)

// Storage is the persistence port behind every store. Get reports ok=false
// for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// MemoryStorage keeps state in process. Safe for concurrent use.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// RedisStorage keeps one shopper's state in Redis under "<namespace>:<key>",
// so several shoppers can share a server.
type RedisStorage struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisStorage pings the server before returning.
func NewRedisStorage(ctx context.Context, rdb *redis.Client, namespace string) (*RedisStorage, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStorage{rdb: rdb, namespace: namespace}, nil
}

func (s *RedisStorage) key(k string) string {
	return s.namespace + ":" + k
}

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
