// Package bigcache adapts allegro/bigcache to the swrcache backend contract.
package bigcache

import (
	"context"
	"errors"
	"strings"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/swrcache/backend"
)

type Store struct {
	c *bc.BigCache
}

var _ backend.Backend = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	return v, err == nil, err
}

// Put stores the value. BigCache does not support per-entry TTLs; the global
// LifeWindow bounds entry lifetime, and the engine's own expiresAt metadata
// enforces the exact deadline.
func (s *Store) Put(_ context.Context, key string, value []byte, _ time.Duration) error {
	return s.c.Set(key, value)
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := s.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

// List scans the whole cache with the iterator. BigCache iterators cannot be
// resumed, so everything matching the prefix is returned as one complete page
// regardless of limit.
func (s *Store) List(_ context.Context, prefix string, _ int, cursor string) (backend.ListPage, error) {
	if cursor != "" {
		return backend.ListPage{}, nil
	}
	var keys []string
	it := s.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			continue // entry evicted mid-iteration
		}
		if strings.HasPrefix(e.Key(), prefix) {
			keys = append(keys, e.Key())
		}
	}
	return backend.ListPage{Keys: keys}, nil
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}
