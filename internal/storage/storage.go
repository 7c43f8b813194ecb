// Package storage provides the persistent key/value items used for the
// registered user and the TTL response cache used by the API client.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store holds persistent items and expiring cache entries.
type Store interface {
	Close() error

	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error

	Lookup(key string) ([]byte, bool, error)
	Save(key string, value []byte, ttl time.Duration) error
	// Sweep removes every expired cache entry and reports how many were dropped.
	Sweep() (int, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	CacheTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	TypeNone   = "none"
	TypeMemory = "memory"
	TypeBBolt  = "bbolt"

	defaultCacheTTL        = 5 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return uncachedStore{newMemoryStore(opts)}, nil
	case TypeMemory:
		return newMemoryStore(opts), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

// uncachedStore keeps items in memory and never caches responses.
type uncachedStore struct {
	*memoryStore
}

func (uncachedStore) Lookup(string) ([]byte, bool, error)      { return nil, false, nil }
func (uncachedStore) Save(string, []byte, time.Duration) error { return nil }
func (uncachedStore) Sweep() (int, error)                      { return 0, nil }
