package metrics

import (
	"time"

	"pdf-library/internal/logging"
)

// StatsProvider is implemented by the library view to expose the counts
// the collector publishes as gauges.
type StatsProvider interface {
	Stats() Stats
}

// Stats holds a snapshot of the library and cache state.
type Stats struct {
	Files          int
	SlotsPending   int
	SlotsReady     int
	SlotsFailed    int
	CacheEntries   int
	CacheSizeBytes int64
}

// Collector periodically collects and updates gauges from a StatsProvider.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop.
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			logging.Debug("Metrics collector stopped")
			return
		}
	}
}

func (c *Collector) collect() {
	stats := c.statsProvider.Stats()

	LibraryFiles.Set(float64(stats.Files))
	LibrarySlots.WithLabelValues("pending").Set(float64(stats.SlotsPending))
	LibrarySlots.WithLabelValues("ready").Set(float64(stats.SlotsReady))
	LibrarySlots.WithLabelValues("failed").Set(float64(stats.SlotsFailed))
	CacheEntries.Set(float64(stats.CacheEntries))
	CacheSizeBytes.Set(float64(stats.CacheSizeBytes))
}
