package compress

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
)

// Brotli compresses with andybalholm/brotli. It trades write-path CPU for
// noticeably better ratios than gzip on text-heavy payloads.
type Brotli struct {
	// Quality in [brotli.BestSpeed, brotli.BestCompression].
	// 0 means brotli.DefaultCompression.
	Quality int
}

var _ Compressor = Brotli{}

func (Brotli) Name() string { return "brotli" }

func (c Brotli) Compress(b []byte) ([]byte, error) {
	q := c.Quality
	if q == 0 {
		q = brotli.DefaultCompression
	}
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, q)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Brotli) Decompress(b []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
}
