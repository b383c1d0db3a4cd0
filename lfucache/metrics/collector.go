// Package metrics exports LFU cache statistics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"LFUCache/lfucache/cache"
)

// StatsSource is a cache whose counters can be scraped.
// Sources read from a scrape goroutine must be safe for concurrent use.
type StatsSource interface {
	Stats() cache.Stats
	Len() int
}

// Collector implements prometheus.Collector over a StatsSource.
type Collector struct {
	src StatsSource

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	entries   *prometheus.Desc
}

// NewCollector creates a collector with the given namespace.
func NewCollector(namespace string, src StatsSource) *Collector {
	return &Collector{
		src: src,
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "hits_total"),
			"Total number of lookups that found the key",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "misses_total"),
			"Total number of lookups that missed",
			nil, nil,
		),
		evictions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "evictions_total"),
			"Total number of entries evicted to make room",
			nil, nil,
		),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "entries"),
			"Current number of cached entries",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.entries
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.src.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(st.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(st.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(st.Evictions))
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(c.src.Len()))
}

var _ prometheus.Collector = (*Collector)(nil)
