package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	localBucket      = "local"
	responseBucket   = "responses"
	expiryValueBytes = 8
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	cacheTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{localBucket, responseBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	store := &boltStore{
		db:              db,
		cacheTTL:        opts.CacheTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// GetItem returns the persistent item stored under key.
func (b *boltStore) GetItem(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(localBucket))
		if bucket == nil {
			return fmt.Errorf("local bucket missing")
		}
		if raw := bucket.Get([]byte(key)); raw != nil {
			value = string(raw)
			found = true
		}
		return nil
	})
	return value, found, err
}

// SetItem stores value under key without expiry.
func (b *boltStore) SetItem(key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(localBucket))
		if bucket == nil {
			return fmt.Errorf("local bucket missing")
		}
		return bucket.Put([]byte(key), []byte(value))
	})
}

// RemoveItem deletes the persistent item stored under key.
func (b *boltStore) RemoveItem(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(localBucket))
		if bucket == nil {
			return fmt.Errorf("local bucket missing")
		}
		return bucket.Delete([]byte(key))
	})
}

// Lookup returns a cached response body if present and not expired.
func (b *boltStore) Lookup(key string) ([]byte, bool, error) {
	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return nil, false, err
	}

	var (
		out   []byte
		found bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("response bucket missing")
		}

		k := []byte(key)
		value := bucket.Get(k)
		if value == nil {
			return nil
		}

		expiry, payload, ok := decodeEntry(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete(k)
		}

		out = append([]byte{}, payload...)
		found = true
		return nil
	})
	return out, found, err
}

// Save caches value under key for ttl (the store default when ttl <= 0).
func (b *boltStore) Save(key string, value []byte, ttl time.Duration) error {
	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = b.cacheTTL
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("response bucket missing")
		}
		return bucket.Put([]byte(key), encodeEntry(now.Add(ttl), value))
	})
}

// Sweep drops expired cache entries regardless of the cleanup cadence.
func (b *boltStore) Sweep() (int, error) {
	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	now := b.now()
	removed, err := b.deleteExpired(now)
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return removed, err
}

// maybeCleanupExpired removes expired entries on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	if _, err := b.deleteExpired(now); err != nil {
		return err
	}
	b.lastCleanup.Store(now.Unix())
	return nil
}

func (b *boltStore) deleteExpired(now time.Time) (int, error) {
	removed := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return fmt.Errorf("response bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, ok := decodeEntry(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
				removed++
			}
		}
		return nil
	})
	return removed, err
}

// encodeEntry prefixes payload with its big-endian expiry in unix nanoseconds.
func encodeEntry(expiry time.Time, payload []byte) []byte {
	buf := make([]byte, expiryValueBytes+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(expiry.UnixNano()))
	copy(buf[expiryValueBytes:], payload)
	return buf
}

// decodeEntry splits a stored value into expiry time and payload.
func decodeEntry(value []byte) (time.Time, []byte, bool) {
	if len(value) < expiryValueBytes {
		return time.Time{}, nil, false
	}
	nanos := int64(binary.BigEndian.Uint64(value[:expiryValueBytes]))
	if nanos <= 0 {
		return time.Time{}, nil, false
	}
	return time.Unix(0, nanos), value[expiryValueBytes:], true
}
