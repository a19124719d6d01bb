// Package cache stores computed responses keyed by a hash of their request.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache is a byte store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

var (
	_ Cache = (*MemoryCache)(nil)
	_ Cache = (*RedisCache)(nil)
)

// Key derives a cache key from a namespace, typically the endpoint, and the
// raw request payload.
func Key(namespace string, payload []byte) string {
	return fmt.Sprintf("%s:%016x", namespace, xxhash.Sum64(payload))
}

type entry struct {
	value   []byte
	expires time.Time
}

// MemoryCache is an in-process Cache used when no Redis address is configured.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryCache creates a cache whose entries expire after ttl. A
// non-positive ttl keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the value stored under key if it has not expired.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key.
func (m *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	e := entry{value: append([]byte(nil), value...)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
