// Package compress provides the lossless compressors the engine applies to
// serialized payloads above the configured threshold. Compression is
// opportunistic: a failing Compress falls back to the uncompressed payload,
// while a failing Decompress marks the entry corrupt.
package compress

// Compressor compresses and decompresses payload bytes. Decompress must
// exactly invert Compress. Implementations must be safe for concurrent use.
type Compressor interface {
	// Name identifies the algorithm, e.g. "gzip" or "brotli".
	Name() string
	Compress(b []byte) ([]byte, error)
	Decompress(b []byte) ([]byte, error)
}
