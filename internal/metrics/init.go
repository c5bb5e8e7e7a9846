package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, result := range []string{"cache_hit", "generated", "placeholder"} {
		ThumbnailsTotal.WithLabelValues(result)
	}

	for _, result := range []string{"hit", "miss", "corrupt"} {
		CacheLookupsTotal.WithLabelValues(result)
	}

	for _, status := range []string{"success", "error"} {
		CacheStoresTotal.WithLabelValues(status)
		ViewerRendersTotal.WithLabelValues(status)
	}

	for _, state := range []string{"pending", "ready", "failed"} {
		LibrarySlots.WithLabelValues(state)
	}
}
