package storage

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value  []byte
	expiry time.Time
}

// memoryStore keeps everything in process memory. Useful for tests and throwaway runs.
type memoryStore struct {
	mu       sync.RWMutex
	items    map[string]string
	cache    map[string]cacheEntry
	cacheTTL time.Duration
	now      func() time.Time
}

func newMemoryStore(opts Options) *memoryStore {
	return &memoryStore{
		items:    make(map[string]string),
		cache:    make(map[string]cacheEntry),
		cacheTTL: opts.CacheTTL,
		now:      time.Now,
	}
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memoryStore) SetItem(key, value string) error {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) RemoveItem(key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Lookup(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.cache[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiry.After(m.now()) {
		delete(m.cache, key)
		return nil, false, nil
	}
	return append([]byte(nil), entry.value...), true, nil
}

func (m *memoryStore) Save(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.cacheTTL
	}
	m.mu.Lock()
	m.cache[key] = cacheEntry{value: append([]byte(nil), value...), expiry: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Sweep() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for k, e := range m.cache {
		if !e.expiry.After(now) {
			delete(m.cache, k)
			removed++
		}
	}
	return removed, nil
}
