// Package wire defines the storage envelope written to the backend for every
// cache entry: a text-safe JSON document holding the (possibly compressed)
// payload plus the metadata the engine needs to evaluate expiry without any
// help from the backend.
package wire

import (
	"encoding/json"
	"errors"
)

var ErrCorrupt = errors.New("swrcache: corrupt entry")

// Metadata is persisted alongside every entry. Timestamps are epoch
// milliseconds. ExpiresAt is the engine's source of truth for expiry; the
// backend's native TTL is only a defense-in-depth hint.
type Metadata struct {
	CreatedAt    int64  `json:"createdAt"`
	ExpiresAt    int64  `json:"expiresAt"`
	Hits         int64  `json:"hits"`
	Size         int64  `json:"size"` // bytes, post-compression
	Compressed   bool   `json:"compressed"`
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Version      string `json:"version"`
}

// Entry is the stored form. Data is the payload after value encoding and
// optional compression; JSON renders it base64, keeping the envelope
// text-safe end to end.
type Entry struct {
	Data     []byte   `json:"data"`
	Metadata Metadata `json:"metadata"`
}

func Encode(e Entry) ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses and validates an envelope. Anything that fails to parse or
// violates the metadata invariants is reported as ErrCorrupt; the caller
// treats the entry as unreadable, never as a crash.
func Decode(b []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, ErrCorrupt
	}
	m := e.Metadata
	if m.CreatedAt <= 0 || m.ExpiresAt < m.CreatedAt || m.Hits < 0 || m.Size < 0 {
		return Entry{}, ErrCorrupt
	}
	if int64(len(e.Data)) != m.Size {
		return Entry{}, ErrCorrupt
	}
	return e, nil
}
