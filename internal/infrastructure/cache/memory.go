package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store with expiration, used when no Redis
// is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
	stop  chan struct{}
}

type memoryItem struct {
	value      string
	expireTime time.Time
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		items: make(map[string]*memoryItem),
		stop:  make(chan struct{}),
	}

	// Cleanup goroutine to remove expired items
	go store.cleanupExpired()

	return store
}

// Set stores a key-value pair with expiration
func (ms *MemoryStore) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = &memoryItem{
		value:      value,
		expireTime: time.Now().Add(expiration),
	}
	return nil
}

// Get retrieves a value by key. Expired entries count as misses.
func (ms *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	if !exists {
		return "", false, nil
	}

	if time.Now().After(item.expireTime) {
		return "", false, nil
	}

	return item.value, true, nil
}

// Close stops the cleanup goroutine.
func (ms *MemoryStore) Close() error {
	close(ms.stop)
	return nil
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := time.Now()
			for key, item := range ms.items {
				if now.After(item.expireTime) {
					delete(ms.items, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
