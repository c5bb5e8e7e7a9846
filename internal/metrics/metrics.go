package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_library_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pdf_library_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pdf_library_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Pipeline metrics
var (
	PipelineRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdf_library_pipeline_runs_total",
			Help: "Total number of thumbnail pipeline runs started",
		},
	)

	PipelineRunsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdf_library_pipeline_runs_cancelled_total",
			Help: "Total number of pipeline runs that were cancelled before completion",
		},
	)

	PipelineFilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdf_library_pipeline_files_processed_total",
			Help: "Total number of files processed across all pipeline runs",
		},
	)

	PipelineRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdf_library_pipeline_run_duration_seconds",
			Help:    "Duration of completed pipeline runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	PipelineActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pdf_library_pipeline_active",
			Help: "Whether a pipeline run is currently active (1 = running, 0 = idle)",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_library_thumbnails_total",
			Help: "Total number of thumbnail requests by result",
		},
		[]string{"result"}, // "cache_hit", "generated", "placeholder"
	)

	ThumbnailGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdf_library_thumbnail_generation_duration_seconds",
			Help:    "Duration of a single thumbnail generation (render + resize + store)",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// Cache metrics
var (
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_library_cache_lookups_total",
			Help: "Total number of thumbnail cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "corrupt"
	)

	CacheStoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_library_cache_stores_total",
			Help: "Total number of thumbnail cache store attempts by status",
		},
		[]string{"status"}, // "success", "error"
	)

	CacheFilesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdf_library_cache_files_removed_total",
			Help: "Total number of cache files removed by clear operations",
		},
	)

	CacheSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pdf_library_cache_size_bytes",
			Help: "Total size of the thumbnail cache directory in bytes",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pdf_library_cache_entries",
			Help: "Number of entries in the thumbnail cache directory",
		},
	)
)

// Library metrics
var (
	LibraryFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pdf_library_files",
			Help: "Number of PDF files in the current (filtered) library view",
		},
	)

	LibrarySlots = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pdf_library_slots",
			Help: "Number of thumbnail slots in the current view by state",
		},
		[]string{"state"}, // "pending", "ready", "failed"
	)
)

// Viewer metrics
var (
	ViewerDocumentsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdf_library_viewer_documents_opened_total",
			Help: "Total number of documents opened in the page viewer",
		},
	)

	ViewerRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_library_viewer_renders_total",
			Help: "Total number of viewer page renders by status",
		},
		[]string{"status"}, // "success", "error"
	)

	ViewerRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdf_library_viewer_render_duration_seconds",
			Help:    "Duration of a viewer page render in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)
