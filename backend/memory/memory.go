// Package memory provides an in-process map-backed Backend. It has no
// external dependencies and is the natural choice for tests and single-node
// deployments where the cache does not need to survive a restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/unkn0wn-root/swrcache/backend"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// Store keeps entries in a mutex-guarded map. TTLs are enforced lazily:
// expired entries are collected on the next Get or List that touches them.
type Store struct {
	mu sync.RWMutex
	m  map[string]entry
}

var _ backend.Backend = (*Store)(nil)

func New() *Store {
	return &Store{m: make(map[string]entry)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	// copy so callers cannot mutate stored bytes
	out := make([]byte, len(e.v))
	copy(out, e.v)
	return out, true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.m[key] = entry{v: v, exp: exp}
	s.mu.Unlock()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

// List pages through all live keys with the given prefix in sorted order.
// The cursor is the last key of the previous page (keyset pagination), so
// deletions between pages cannot skip surviving keys.
func (s *Store) List(_ context.Context, prefix string, limit int, cursor string) (backend.ListPage, error) {
	now := time.Now()
	s.mu.Lock()
	keys := make([]string, 0, len(s.m))
	for k, e := range s.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(s.m, k)
			continue
		}
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
	s.mu.Lock()
	s.m = make(map[string]entry)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live entries. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
