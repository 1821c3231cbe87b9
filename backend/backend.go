// Package backend defines the key-value storage abstraction used by swrcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Put for a key (no prepended or
// appended metadata, no re-encoding, no mutation). If a store performs internal
// transforms they MUST be fully reversed so that the bytes returned by Get are
// identical to the bytes provided to Put.
//
// The engine namespaces every key with its configured prefix. External code
// MUST NOT write values under that prefix; foreign writes may be treated as
// corruption by strict envelope validation.
package backend

import (
	"context"
	"time"
)

// ListPage is one page of a prefix listing. Cursor is an opaque continuation
// token; an empty Cursor means the listing is complete.
type ListPage struct {
	Keys   []string
	Cursor string
}

// Backend is a minimal byte store with per-entry TTLs and prefix listing.
// Must be safe for concurrent use.
type Backend interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value with the given TTL. A non-positive TTL means the
	// entry does not expire (or uses the store's global policy).
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns up to limit keys starting with prefix. Pass the Cursor
	// from the previous page to continue; pass "" to start. Stores that
	// cannot paginate may return everything in one complete page.
	List(ctx context.Context, prefix string, limit int, cursor string) (ListPage, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
