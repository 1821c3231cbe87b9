package swrcache

import "sync"

// Stats is a point-in-time snapshot of the engine's counters. HitRate and
// AverageSize are derived when the snapshot is taken, never stored, so they
// cannot go stale.
type Stats struct {
	Hits              int64
	Misses            int64
	Writes            int64
	Deletes           int64
	Evictions         int64
	TotalSize         int64 // bytes written, post-compression
	EntryCount        int64
	CompressedEntries int64
	CompressionRatio  float64 // running mean of originalSize/finalSize
	HitRate           float64
	AverageSize       float64
}

// stats holds the live counters. A single mutex is enough: the running
// compression ratio is a read-modify-write and every op touches at most a few
// fields.
type stats struct {
	mu                sync.Mutex
	hits              int64
	misses            int64
	writes            int64
	deletes           int64
	evictions         int64
	totalSize         int64
	entryCount        int64
	compressedEntries int64
	compressionRatio  float64
}

func (s *stats) hit() {
	s.mu.Lock()
	s.hits++
	s.mu.Unlock()
}

func (s *stats) miss() {
	s.mu.Lock()
	s.misses++
	s.mu.Unlock()
}

func (s *stats) write(size int64, compressed bool, ratio float64) {
	s.mu.Lock()
	s.writes++
	s.totalSize += size
	s.entryCount++
	if compressed {
		s.compressedEntries++
		n := float64(s.compressedEntries)
		s.compressionRatio = (s.compressionRatio*(n-1) + ratio) / n
	}
	s.mu.Unlock()
}

func (s *stats) del() {
	s.mu.Lock()
	s.deletes++
	if s.entryCount > 0 {
		s.entryCount--
	}
	s.mu.Unlock()
}

func (s *stats) evict() {
	s.mu.Lock()
	s.evictions++
	if s.entryCount > 0 {
		s.entryCount--
	}
	s.mu.Unlock()
}

func (s *stats) snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Stats{
		Hits:              s.hits,
		Misses:            s.misses,
		Writes:            s.writes,
		Deletes:           s.deletes,
		Evictions:         s.evictions,
		TotalSize:         s.totalSize,
		EntryCount:        s.entryCount,
		CompressedEntries: s.compressedEntries,
		CompressionRatio:  s.compressionRatio,
	}
	if total := out.Hits + out.Misses; total > 0 {
		out.HitRate = float64(out.Hits) / float64(total)
	}
	if out.EntryCount > 0 {
		out.AverageSize = float64(out.TotalSize) / float64(out.EntryCount)
	}
	return out
}

func (s *stats) reset() {
	s.mu.Lock()
	s.hits = 0
	s.misses = 0
	s.writes = 0
	s.deletes = 0
	s.evictions = 0
	s.totalSize = 0
	s.entryCount = 0
	s.compressedEntries = 0
	s.compressionRatio = 0
	s.mu.Unlock()
}
