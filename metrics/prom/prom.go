// Package prom exposes a cache's statistics as prometheus metrics. The
// collector reads the stats snapshot at scrape time, so no extra bookkeeping
// runs on the cache's hot path.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/swrcache"
)

// StatsSource is anything with a Stats method; every swrcache.Cache
// satisfies it.
type StatsSource interface {
	Stats() swrcache.Stats
}

type Collector struct {
	src StatsSource

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	writes     *prometheus.Desc
	deletes    *prometheus.Desc
	evictions  *prometheus.Desc
	entries    *prometheus.Desc
	totalSize  *prometheus.Desc
	compressed *prometheus.Desc
	ratio      *prometheus.Desc
	hitRate    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector for src. The namespace label distinguishes
// multiple engines registered in one registry.
func NewCollector(src StatsSource, namespace string) *Collector {
	l := prometheus.Labels{"namespace": namespace}
	d := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("swrcache_"+name, help, nil, l)
	}
	return &Collector{
		src:        src,
		hits:       d("hits_total", "Cache read hits, fresh and stale-served."),
		misses:     d("misses_total", "Cache read misses, including degraded reads."),
		writes:     d("writes_total", "Successful cache writes."),
		deletes:    d("deletes_total", "Explicit deletes plus pattern invalidations."),
		evictions:  d("evictions_total", "Expired entries dropped on read."),
		entries:    d("entries", "Live entry count as tracked by the engine."),
		totalSize:  d("total_size_bytes", "Bytes written, post-compression."),
		compressed: d("compressed_entries", "Writes stored compressed."),
		ratio:      d("compression_ratio", "Running mean of original/compressed size."),
		hitRate:    d("hit_rate", "hits / (hits + misses)."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.writes
	ch <- c.deletes
	ch <- c.evictions
	ch <- c.entries
	ch <- c.totalSize
	ch <- c.compressed
	ch <- c.ratio
	ch <- c.hitRate
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	counter := func(d *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter(c.hits, s.Hits)
	counter(c.misses, s.Misses)
	counter(c.writes, s.Writes)
	counter(c.deletes, s.Deletes)
	counter(c.evictions, s.Evictions)
	gauge(c.entries, float64(s.EntryCount))
	gauge(c.totalSize, float64(s.TotalSize))
	gauge(c.compressed, float64(s.CompressedEntries))
	gauge(c.ratio, s.CompressionRatio)
	gauge(c.hitRate, s.HitRate)
}
