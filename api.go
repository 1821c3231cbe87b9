package swrcache

import (
	"context"
	"time"

	be "github.com/unkn0wn-root/swrcache/backend"
	co "github.com/unkn0wn-root/swrcache/codec"
	cp "github.com/unkn0wn-root/swrcache/compress"
	"github.com/unkn0wn-root/swrcache/internal/wire"
)

// Metadata is the per-entry record persisted alongside every cached value.
type Metadata = wire.Metadata

// Cache is the backend-agnostic caching engine with TTL expiry and
// stale-while-revalidate semantics. V is the caller's value type;
// serialization is handled by a pluggable Codec[V].
type Cache[V any] interface {
	// Initialize makes the data methods usable and starts warming if
	// configured. Calling it twice logs a warning and is a no-op.
	Initialize(ctx context.Context) error
	// Shutdown stops the warming scheduler, drops in-flight warming work and
	// closes the backend. Idempotent.
	Shutdown(ctx context.Context) error

	// Get returns the cached value for key, or ok=false on a miss. Backend
	// and decode failures on the read path degrade to misses; the error slot
	// is reserved for ErrNotInitialized.
	Get(ctx context.Context, key string, opts *GetOptions) (v V, ok bool, err error)
	// Set caches value under key. Values the codec cannot encode are skipped
	// with a warning; backend write failures are returned as *SetError.
	Set(ctx context.Context, key string, value V, opts *SetOptions) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Has reports raw existence. It does not count as a hit or miss and does
	// not evaluate expiry: an expired-but-uncollected entry reports true.
	// Callers needing freshness must use Get.
	Has(ctx context.Context, key string) (bool, error)

	// GenerateKey derives a deterministic Key for a URL plus param set.
	GenerateKey(url string, params map[string]string) Key

	// Invalidate deletes every entry whose de-prefixed key matches p and
	// returns the count deleted. Listing is paged; pages are fetched
	// sequentially to bound backend load.
	Invalidate(ctx context.Context, p Pattern) (int, error)
	// Clear deletes every entry under the engine's prefix and resets stats.
	Clear(ctx context.Context) error

	Stats() Stats
	ResetStats()

	On(t EventType, fn Listener) ListenerID
	Off(t EventType, id ListenerID)
}

// GetOptions are per-call read options.
type GetOptions struct {
	// BypassCache short-circuits to a miss without touching the backend or
	// the hit/miss counters.
	BypassCache bool
	// StaleWhileRevalidate overrides the engine default when non-nil.
	StaleWhileRevalidate *bool
}

// SetOptions are per-call write options.
type SetOptions struct {
	TTL time.Duration // 0 => engine DefaultTTL
	// Compress overrides the engine's compression enable flag when non-nil.
	// The size threshold still applies.
	Compress             *bool
	CompressionThreshold int // bytes; 0 => engine default

	ETag         string
	LastModified string
	Platform     string
}

// Options tune the engine. Only Backend is required; others have sensible
// defaults.
type Options[V any] struct {
	// Required
	Backend be.Backend

	Codec      co.Codec[V]   // nil => codec.JSON[V]{}
	Compressor cp.Compressor // nil => compress.NewGzip()
	Logger     Logger        // nil => NopLogger

	KeyPrefix  string        // storage namespace; "" => "cache:"
	Version    string        // schema tag stored in each entry; "" => "1"
	DefaultTTL time.Duration // 0 => 1h
	StaleTTL   time.Duration // grace window after expiry; 0 => 5m

	EnableCompression          bool
	CompressionThreshold       int // bytes; 0 => 1024
	EnableStaleWhileRevalidate bool

	ListPageSize int // keys per listing round-trip; 0 => 1000

	Warming  Warming
	WarmFunc WarmFunc // required when Warming.Enabled
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
