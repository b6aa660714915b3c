// Package cache wraps a content store with a Badger-backed read cache.
// File reads are served from the cache when present; misses fall through
// to the inner store and populate the cache with a TTL. Stat and List are
// passed through untouched so directory semantics stay those of the inner
// store.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/staticd/staticd/internal/logger"
	"github.com/staticd/staticd/pkg/content"
)

// CachedStore is a content.Store decorator. Only Read results are cached;
// error results never are, so transient failures do not stick.
type CachedStore struct {
	inner content.Store
	db    *badger.DB
	ttl   time.Duration
}

// New opens (or creates) the Badger database at path and wraps inner with
// it. Entries expire after ttl; a zero ttl means entries never expire.
func New(inner content.Store, path string, ttl time.Duration) (*CachedStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache database at %s: %w", path, err)
	}

	return &CachedStore{inner: inner, db: db, ttl: ttl}, nil
}

func (s *CachedStore) Root() string {
	return s.inner.Root()
}

func (s *CachedStore) Stat(ctx context.Context, path string) (content.Info, error) {
	return s.inner.Stat(ctx, path)
}

func (s *CachedStore) Read(ctx context.Context, path string) ([]byte, error) {
	if data, err := s.get(path); err == nil {
		logger.Debug("Cache hit for %s", path)
		return data, nil
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		logger.Warn("Cache lookup for %s failed: %v", path, err)
	}

	data, err := s.inner.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := s.set(path, data); err != nil {
		logger.Warn("Cache store for %s failed: %v", path, err)
	}
	return data, nil
}

func (s *CachedStore) List(ctx context.Context, path string) ([]content.Entry, error) {
	return s.inner.List(ctx, path)
}

// Close closes the cache database and then the inner store.
func (s *CachedStore) Close() error {
	if err := s.db.Close(); err != nil {
		s.inner.Close()
		return fmt.Errorf("close cache database: %w", err)
	}
	return s.inner.Close()
}

func (s *CachedStore) get(path string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *CachedStore) set(path string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(path), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}
