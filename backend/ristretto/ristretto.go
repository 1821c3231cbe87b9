// Package ristretto adapts dgraph-io/ristretto to the swrcache backend
// contract. Ristretto cannot enumerate its contents, so the adapter keeps a
// side index of live keys to serve List.
package ristretto

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/swrcache/backend"
)

type Store struct {
	c *rc.Cache

	mu   sync.Mutex
	keys map[string]struct{}
}

var _ backend.Backend = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, keys: make(map[string]struct{})}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		// evicted or expired under us; drop from the index
		s.forget(key)
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		s.forget(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if !s.c.SetWithTTL(key, value, int64(len(value)), ttl) {
		// rejected under memory pressure; treat as a dropped write, the
		// engine sees it as a miss on the next read
		return nil
	}
	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.c.Del(key)
	s.forget(key)
	return nil
}

// List serves pages from the side index in sorted order using keyset
// pagination (the cursor is the last key of the previous page), so deletions
// between pages cannot skip surviving keys. The index may be ahead of the
// cache when ristretto evicts silently; stale names resolve to misses on Get
// and get pruned there.
func (s *Store) List(_ context.Context, prefix string, limit int, cursor string) (backend.ListPage, error) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		if strings.HasPrefix(k, prefix) && k > cursor {
			keys = append(keys, k)
		}
	}
	s.mu.Unlock()
	sort.Strings(keys)

	if len(keys) == 0 {
		return backend.ListPage{}, nil
	}
	end := len(keys)
	if limit > 0 && limit < end {
		end = limit
	}
	page := backend.ListPage{Keys: keys[:end]}
	if end < len(keys) {
		page.Cursor = keys[end-1]
	}
	return page, nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto's own counters when enabled in Config.
// Not part of the backend contract.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }

func (s *Store) forget(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}
