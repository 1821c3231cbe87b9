package compress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func roundTrip(t *testing.T, c Compressor, in []byte) {
	t.Helper()
	packed, err := c.Compress(in)
	if err != nil {
		t.Fatalf("%s Compress: %v", c.Name(), err)
	}
	out, err := c.Decompress(packed)
	if err != nil {
		t.Fatalf("%s Decompress: %v", c.Name(), err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("%s round-trip mismatch: %d bytes in, %d bytes out", c.Name(), len(in), len(out))
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte(""),
		[]byte("short"),
		[]byte(strings.Repeat(`{"user":"ada","active":true}`, 200)),
		{0x00, 0xff, 0x80, 0x7f},
	}
	for _, c := range []Compressor{NewGzip(), Brotli{}} {
		for _, in := range inputs {
			roundTrip(t, c, in)
		}
	}
}

func TestCompressibleInputShrinks(t *testing.T) {
	in := []byte(strings.Repeat("cacheable text ", 500))
	for _, c := range []Compressor{NewGzip(), Brotli{}} {
		packed, err := c.Compress(in)
		if err != nil {
			t.Fatalf("%s: %v", c.Name(), err)
		}
		if len(packed) >= len(in) {
			t.Fatalf("%s did not shrink repetitive input: %d -> %d", c.Name(), len(in), len(packed))
		}
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	for _, c := range []Compressor{NewGzip(), Brotli{}} {
		if _, err := c.Decompress([]byte("definitely not compressed")); err == nil {
			t.Fatalf("%s accepted garbage input", c.Name())
		}
	}
}

// gzip writers are pooled; hammer Compress from many goroutines.
func TestGzipConcurrent(t *testing.T) {
	g := NewGzip()
	in := []byte(strings.Repeat("payload ", 128))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				packed, err := g.Compress(in)
				if err != nil {
					t.Errorf("Compress: %v", err)
					return
				}
				out, err := g.Decompress(packed)
				if err != nil || !bytes.Equal(out, in) {
					t.Errorf("round-trip failed under concurrency: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
