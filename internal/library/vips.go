package library

import (
	"bytes"
	"image"
	"image/png"
	"sync"

	"pdf-library/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// InitVips initializes the libvips library, used to recompress thumbnail
// PNGs before they are persisted. This should be called once at startup;
// when it is skipped or fails, encoding falls back to image/png.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Configure vips logging BEFORE Startup() to respect LOG_LEVEL
	var vipsLogLevel vips.LogLevel
	if logging.IsDebugEnabled() {
		vipsLogLevel = vips.LogLevelInfo
	} else {
		vipsLogLevel = vips.LogLevelWarning
	}
	vips.LoggingSettings(func(domain string, level vips.LogLevel, msg string) {
		switch level {
		case vips.LogLevelError, vips.LogLevelCritical:
			logging.Error("[%s] %s", domain, msg)
		case vips.LogLevelWarning:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}, vipsLogLevel)

	// Conservative memory settings; thumbnails are small and sequential
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips cleans up libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable returns whether libvips is initialized and available.
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// EncodePNG encodes img as PNG. When libvips is available the output is
// recompressed through it, which typically shaves 10-30% off the stdlib
// encoder's output for rasterized pages; otherwise the stdlib bytes are
// returned as-is.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}

	if !IsVipsAvailable() {
		return buf.Bytes(), nil
	}

	ref, err := vips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		logging.Debug("vips PNG recompress skipped (load failed): %v", err)
		return buf.Bytes(), nil
	}
	defer ref.Close()

	params := vips.NewPngExportParams()
	params.Compression = 9
	out, _, err := ref.ExportPng(params)
	if err != nil {
		logging.Debug("vips PNG recompress skipped (export failed): %v", err)
		return buf.Bytes(), nil
	}

	// Keep whichever encoding came out smaller
	if len(out) >= buf.Len() {
		return buf.Bytes(), nil
	}
	return out, nil
}
