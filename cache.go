package swrcache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/swrcache/backend"
	"github.com/unkn0wn-root/swrcache/codec"
	"github.com/unkn0wn-root/swrcache/compress"
	"github.com/unkn0wn-root/swrcache/internal/wire"
)

type cache[V any] struct {
	be   backend.Backend
	cod  codec.Codec[V]
	comp compress.Compressor
	log  Logger

	keyPrefix    string
	version      string
	defaultTTL   time.Duration
	staleTTL     time.Duration
	compression  bool
	threshold    int
	staleDefault bool
	pageSize     int

	stats     stats
	listeners listeners
	warm      *warmer

	initialized atomic.Bool
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("swrcache: backend is required")
	}
	if opts.Warming.Enabled && opts.WarmFunc == nil {
		return nil, fmt.Errorf("swrcache: warming enabled without WarmFunc")
	}

	c := &cache[V]{
		be:           opts.Backend,
		compression:  opts.EnableCompression,
		staleDefault: opts.EnableStaleWhileRevalidate,
	}

	// defaults
	if opts.Codec != nil {
		c.cod = opts.Codec
	} else {
		c.cod = codec.JSON[V]{}
	}
	if opts.Compressor != nil {
		c.comp = opts.Compressor
	} else {
		c.comp = compress.NewGzip()
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.keyPrefix = coalesce(opts.KeyPrefix, "cache:")
	c.version = coalesce(opts.Version, "1")
	c.defaultTTL = coalesce(opts.DefaultTTL, time.Hour)
	c.staleTTL = coalesce(opts.StaleTTL, 5*time.Minute)
	c.threshold = coalesce(opts.CompressionThreshold, 1024)
	c.pageSize = coalesce(opts.ListPageSize, 1000)

	if opts.Warming.Enabled && len(opts.Warming.URLs) > 0 {
		c.warm = newWarmer(opts.Warming, opts.WarmFunc, c.log)
	}

	return c, nil
}

func (c *cache[V]) Initialize(_ context.Context) error {
	if !c.initialized.CompareAndSwap(false, true) {
		c.log.Warn("initialize called twice; ignoring", Fields{"prefix": c.keyPrefix})
		return nil
	}
	if c.warm != nil {
		c.warm.start()
	}
	c.log.Info("cache initialized", Fields{
		"prefix":      c.keyPrefix,
		"defaultTTL":  c.defaultTTL,
		"compression": c.compression,
		"staleServe":  c.staleDefault,
	})
	return nil
}

func (c *cache[V]) Shutdown(ctx context.Context) error {
	if !c.initialized.CompareAndSwap(true, false) {
		return nil
	}
	if c.warm != nil {
		c.warm.stop()
	}
	return c.be.Close(ctx)
}

func (c *cache[V]) Get(ctx context.Context, key string, opts *GetOptions) (V, bool, error) {
	var zero V
	if !c.initialized.Load() {
		return zero, false, ErrNotInitialized
	}
	if opts != nil && opts.BypassCache {
		// short-circuit: no backend touch, no hit/miss accounting
		return zero, false, nil
	}

	k := c.storageKey(key)
	raw, ok, err := c.be.Get(ctx, k)
	if err != nil {
		c.log.Warn("backend read failed; treating as miss", Fields{"key": key, "err": err})
		c.missed(key)
		return zero, false, nil
	}
	if !ok {
		c.missed(key)
		return zero, false, nil
	}

	ent, err := wire.Decode(raw)
	if err != nil {
		// corrupt entries are left for invalidate/clear or backend expiry
		c.log.Warn("corrupt cache entry", Fields{"key": key, "err": err})
		c.missed(key)
		return zero, false, nil
	}

	staleOK := c.staleDefault
	if opts != nil && opts.StaleWhileRevalidate != nil {
		staleOK = *opts.StaleWhileRevalidate
	}
	now := time.Now().UnixMilli()

	switch {
	case now < ent.Metadata.ExpiresAt: // fresh
		v, derr := c.decodePayload(ent)
		if derr != nil {
			c.log.Warn("cache entry decode failed", Fields{"key": key, "err": derr})
			c.missed(key)
			return zero, false, nil
		}
		c.touch(ctx, k, &ent)
		c.stats.hit()
		md := ent.Metadata
		c.emit(EventHit, key, &md)
		return v, true, nil

	case staleOK && now <= ent.Metadata.ExpiresAt+c.staleTTL.Milliseconds():
		// stale-servable: return the stale value as-is; refreshing is the
		// caller's responsibility
		v, derr := c.decodePayload(ent)
		if derr != nil {
			c.log.Warn("cache entry decode failed", Fields{"key": key, "err": derr})
			c.missed(key)
			return zero, false, nil
		}
		c.stats.hit()
		md := ent.Metadata
		c.emit(EventHit, key, &md)
		return v, true, nil

	default:
		// stale with serving disabled, or past the grace window
		if derr := c.be.Delete(ctx, k); derr != nil {
			c.log.Warn("failed to drop expired entry", Fields{"key": key, "err": derr})
		} else {
			c.stats.evict()
		}
		c.missed(key)
		return zero, false, nil
	}
}

func (c *cache[V]) Set(ctx context.Context, key string, value V, opts *SetOptions) error {
	if !c.initialized.Load() {
		return ErrNotInitialized
	}

	payload, err := c.cod.Encode(value)
	if err != nil {
		// unencodable values skip the cache rather than fail the caller
		c.log.Warn("set skipped: value not encodable", Fields{"key": key, "err": err})
		return nil
	}
	originalSize := len(payload)

	enabled := c.compression
	if opts != nil && opts.Compress != nil {
		enabled = *opts.Compress
	}
	threshold := c.threshold
	if opts != nil && opts.CompressionThreshold > 0 {
		threshold = opts.CompressionThreshold
	}

	data := payload
	compressed := false
	if enabled && originalSize >= threshold {
		cb, cerr := c.comp.Compress(payload)
		if cerr != nil {
			c.log.Warn("compression failed; storing uncompressed", Fields{"key": key, "err": cerr})
		} else {
			data = cb
			compressed = true
		}
	}

	ttl := c.defaultTTL
	if opts != nil && opts.TTL > 0 {
		ttl = opts.TTL
	}

	now := time.Now()
	md := wire.Metadata{
		CreatedAt:  now.UnixMilli(),
		ExpiresAt:  now.Add(ttl).UnixMilli(),
		Size:       int64(len(data)),
		Compressed: compressed,
		Version:    c.version,
	}
	if opts != nil {
		md.ETag = opts.ETag
		md.LastModified = opts.LastModified
		md.Platform = opts.Platform
	}

	raw, err := wire.Encode(wire.Entry{Data: data, Metadata: md})
	if err != nil {
		c.log.Warn("set skipped: envelope encode failed", Fields{"key": key, "err": err})
		return nil
	}

	if err := c.be.Put(ctx, c.storageKey(key), raw, c.backendTTL(ttl)); err != nil {
		return &SetError{Key: key, Err: err}
	}

	var ratio float64
	if compressed && len(data) > 0 {
		ratio = float64(originalSize) / float64(len(data))
	}
	c.stats.write(int64(len(data)), compressed, ratio)
	c.emit(EventWrite, key, &md)
	return nil
}

func (c *cache[V]) Delete(ctx context.Context, key string) error {
	if !c.initialized.Load() {
		return ErrNotInitialized
	}
	if err := c.be.Delete(ctx, c.storageKey(key)); err != nil {
		return err
	}
	c.stats.del()
	c.emit(EventDelete, key, nil)
	return nil
}

func (c *cache[V]) Has(ctx context.Context, key string) (bool, error) {
	if !c.initialized.Load() {
		return false, ErrNotInitialized
	}
	_, ok, err := c.be.Get(ctx, c.storageKey(key))
	if err != nil {
		c.log.Warn("backend probe failed", Fields{"key": key, "err": err})
		return false, nil
	}
	return ok, nil
}

func (c *cache[V]) GenerateKey(url string, params map[string]string) Key {
	return GenerateKey(url, params)
}

func (c *cache[V]) Clear(ctx context.Context) error {
	if !c.initialized.Load() {
		return ErrNotInitialized
	}
	cursor := ""
	for {
		page, err := c.be.List(ctx, c.keyPrefix, c.pageSize, cursor)
		if err != nil {
			return err
		}
		for _, k := range page.Keys {
			if err := c.be.Delete(ctx, k); err != nil {
				return err
			}
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}
	c.stats.reset()
	return nil
}

func (c *cache[V]) Stats() Stats { return c.stats.snapshot() }

func (c *cache[V]) ResetStats() { c.stats.reset() }

func (c *cache[V]) On(t EventType, fn Listener) ListenerID { return c.listeners.on(t, fn) }

func (c *cache[V]) Off(t EventType, id ListenerID) { c.listeners.off(t, id) }

// touch rewrites the entry with an incremented hit counter. The backend has
// no compare-and-swap, so concurrent readers of the same key can under-count;
// hit counts are observability, not billing.
func (c *cache[V]) touch(ctx context.Context, storageKey string, ent *wire.Entry) {
	ent.Metadata.Hits++
	raw, err := wire.Encode(*ent)
	if err != nil {
		return
	}
	remaining := time.Until(time.UnixMilli(ent.Metadata.ExpiresAt))
	if remaining <= 0 {
		return
	}
	if err := c.be.Put(ctx, storageKey, raw, c.backendTTL(remaining)); err != nil {
		c.log.Debug("hit counter rewrite failed", Fields{"key": storageKey, "err": err})
	}
}

func (c *cache[V]) decodePayload(ent wire.Entry) (V, error) {
	data := ent.Data
	if ent.Metadata.Compressed {
		b, err := c.comp.Decompress(data)
		if err != nil {
			var zero V
			return zero, err
		}
		data = b
	}
	return c.cod.Decode(data)
}

// backendTTL is the expiry hint handed to the backend, always stretched by
// the grace window: per-call StaleWhileRevalidate overrides must be able to
// serve stale entries even when the engine default is off, so the backend
// must not collect them at expiry. ExpiresAt in the entry metadata stays the
// engine's source of truth.
func (c *cache[V]) backendTTL(ttl time.Duration) time.Duration {
	return ttl + c.staleTTL
}

func (c *cache[V]) storageKey(key string) string {
	return c.keyPrefix + key
}

func (c *cache[V]) missed(key string) {
	c.stats.miss()
	c.emit(EventMiss, key, nil)
}
