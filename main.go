package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"pdf-library/internal/handlers"
	"pdf-library/internal/library"
	"pdf-library/internal/logging"
	"pdf-library/internal/metrics"
	"pdf-library/internal/middleware"
	"pdf-library/internal/pdfrender"
	"pdf-library/internal/startup"
	"pdf-library/internal/viewer"
	"pdf-library/internal/workers"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize image processing
	if err := library.InitVips(); err != nil {
		logging.Warn("libvips unavailable, falling back to stdlib PNG encoding: %v", err)
	}
	defer library.ShutdownVips()
	startup.LogRendererInit()

	// Initialize thumbnail pipeline
	opener := pdfrender.NewOpener()
	cache := library.NewCache(config.CacheDir, config.CacheEnabled)
	gen := library.NewGenerator(cache, opener)
	workerCount := workers.ForCPU(8)
	pipeline := library.NewPipeline(gen, workerCount)
	view := library.NewView(pipeline, cache,
		config.ThumbnailPage, config.ThumbnailWidth, config.ThumbnailHeight)
	defer view.Close()
	startup.LogPipelineInit(workerCount, cache.Enabled())

	// Initialize metrics
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		collector := metrics.NewCollector(view, 15*time.Second)
		collector.Start()
		defer collector.Stop()
	}

	// Initialize folder watcher
	var watcher *library.FolderWatcher
	if config.WatchEnabled {
		watcher, err = library.NewFolderWatcher(view)
		if err != nil {
			logging.Warn("Folder watch unavailable: %v", err)
			watcher = nil
		}
	}
	startup.LogWatcherInit(watcher != nil)

	// Initialize document viewer
	vw := viewer.New(opener)
	defer vw.Close()

	// Open the configured library folder, if any
	if config.LibraryDir != "" {
		if err := view.OpenFolder(config.LibraryDir); err != nil {
			logging.Warn("Cannot open library folder: %v", err)
		} else if watcher != nil {
			if err := watcher.SetFolder(config.LibraryDir); err != nil {
				logging.Warn("Cannot watch library folder: %v", err)
			}
		}
	}

	// Initialize handlers
	h := handlers.New(view, vw, cache, watcher)

	// Setup router
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics server on a separate port
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, view, vw, pipeline, watcher)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Library routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/library", h.GetLibrary).Methods("GET")
	api.HandleFunc("/library/folder", h.OpenFolder).Methods("POST")
	api.HandleFunc("/library/filter", h.SetFilter).Methods("POST")
	api.HandleFunc("/library/refresh", h.RefreshLibrary).Methods("POST")
	api.HandleFunc("/library/events", h.Events).Methods("GET")
	api.HandleFunc("/thumbnail/{name}", h.GetThumbnail).Methods("GET")

	// Cache and settings routes
	api.HandleFunc("/cache/clear", h.ClearCache).Methods("POST")
	api.HandleFunc("/settings/thumbnails", h.GetThumbnailSettings).Methods("GET")
	api.HandleFunc("/settings/thumbnails", h.SetThumbnailSettings).Methods("POST")

	// Viewer routes
	api.HandleFunc("/viewer", h.GetViewer).Methods("GET")
	api.HandleFunc("/viewer/open", h.OpenDocument).Methods("POST")
	api.HandleFunc("/viewer/close", h.CloseDocument).Methods("POST")
	api.HandleFunc("/viewer/page.png", h.GetPage).Methods("GET")
	api.HandleFunc("/viewer/page", h.SetPage).Methods("POST")
	api.HandleFunc("/viewer/zoom", h.SetZoom).Methods("POST")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, view *library.View, vw *viewer.Viewer, pipeline *library.Pipeline, watcher *library.FolderWatcher) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		startup.LogShutdownStep("Stopping folder watcher")
		watcher.Stop()
		startup.LogShutdownStepComplete("Folder watcher stopped")
	}

	startup.LogShutdownStep("Stopping thumbnail pipeline")
	pipeline.Stop()
	startup.LogShutdownStepComplete("Thumbnail pipeline stopped")

	startup.LogShutdownStep("Closing viewer")
	vw.Close()
	startup.LogShutdownStepComplete("Viewer closed")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		}
	}

	view.Close()
	startup.LogShutdownComplete()
}
