// Package swrcache implements a backend-agnostic caching engine with TTL
// expiry and stale-while-revalidate semantics over any key-value store that
// can get/put/delete bytes and list keys by prefix.
//
// Components:
//   - Backend: byte store with TTL hints and prefix listing
//     (e.g. Redis, BigCache, Ristretto, in-process memory).
//   - Codec[V]: (de)serializes V <-> []byte.
//   - Compressor: opportunistic lossless compression above a size threshold.
//
// Each entry is stored as a text-safe envelope {data, metadata}. The metadata
// carries createdAt/expiresAt in epoch milliseconds; expiresAt is the
// engine's source of truth for expiry, since the backend cannot be asked how
// much TTL an entry has left. The backend's native TTL is set alongside as
// defense in depth.
//
// Entry lifecycle on read:
//
//	fresh           now < expiresAt              -> hit (hit counter rewritten best-effort)
//	stale-servable  expiresAt <= now <= +stale   -> hit when stale serving applies; refresh is the caller's job
//	stale-expired   now > expiresAt + stale      -> entry dropped, miss
//
// Read-path failures (backend IO, corrupt envelope, decode/decompress errors)
// degrade to misses and never reach the caller; write failures propagate,
// because a caller that believes data is cached when it is not misbehaves
// downstream.
//
// Keys: the backend storage key is KeyPrefix + rawKey. GenerateKey is a
// caller-side helper deriving collision-resistant keys from a URL plus an
// option set, invariant under option ordering.
package swrcache
