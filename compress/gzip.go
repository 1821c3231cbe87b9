package compress

import (
	"bytes"
	"compress/gzip"
	"io"
	"sync"
)

// Gzip is the default compressor. Writers are pooled to keep allocation off
// the write path. The zero value is ready to use.
type Gzip struct {
	pool sync.Pool
}

var _ Compressor = (*Gzip)(nil)

func NewGzip() *Gzip { return &Gzip{} }

func (*Gzip) Name() string { return "gzip" }

func (g *Gzip) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, _ := g.pool.Get().(*gzip.Writer)
	if w == nil {
		w = gzip.NewWriter(&buf)
	} else {
		w.Reset(&buf)
	}
	defer g.pool.Put(w)

	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (*Gzip) Decompress(b []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
