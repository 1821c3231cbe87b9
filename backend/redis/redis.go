// Package redis adapts a go-redis client to the swrcache backend contract.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/swrcache/backend"
)

var ErrNilClient = errors.New("redis backend: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ backend.Backend = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this backend exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (b *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := b.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return v, true, nil
}

func (b *Redis) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // non-positive TTL => no expiry per backend contract
	}
	return b.rdb.Set(ctx, key, value, ttl).Err()
}

func (b *Redis) Delete(ctx context.Context, key string) error {
	return b.rdb.Del(ctx, key).Err()
}

// List walks the keyspace with SCAN. Redis cursors are server-chosen uint64s;
// they are passed through as decimal strings. SCAN's COUNT is a hint, so a
// page may hold fewer (or slightly more) than limit keys.
func (b *Redis) List(ctx context.Context, prefix string, limit int, cursor string) (backend.ListPage, error) {
	var cur uint64
	if cursor != "" {
		n, err := strconv.ParseUint(cursor, 10, 64)
		if err != nil {
			return backend.ListPage{}, errors.New("redis backend: malformed list cursor")
		}
		cur = n
	}
	if limit <= 0 {
		limit = 1000
	}
	keys, next, err := b.rdb.Scan(ctx, cur, prefix+"*", int64(limit)).Result()
	if err != nil {
		return backend.ListPage{}, err
	}
	page := backend.ListPage{Keys: keys}
	if next != 0 {
		page.Cursor = strconv.FormatUint(next, 10)
	}
	return page, nil
}

// Close releases the underlying redis client only when this backend owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (b *Redis) Close(context.Context) error {
	if b.closeClient {
		if err := b.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
