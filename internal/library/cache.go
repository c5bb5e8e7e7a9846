package library

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"pdf-library/internal/logging"
	"pdf-library/internal/metrics"
)

// Cache is a keyed on-disk store of thumbnail images. It is constructed
// with an explicit root directory and handed to every component that needs
// it; there is no ambient global cache location.
//
// Every operation is best-effort: lookup failures of any kind degrade to a
// miss, store failures are swallowed after logging. Callers never depend
// on the cache for correctness, only speed.
type Cache struct {
	root    string
	enabled bool
}

// NewCache creates a cache rooted at root. If the directory cannot be
// created the cache is disabled and every lookup misses; thumbnails are
// then generated on every request but the application keeps working.
func NewCache(root string, enabled bool) *Cache {
	if enabled {
		if err := os.MkdirAll(root, 0o755); err != nil {
			logging.Warn("Cache: failed to create cache dir %s: %v", root, err)
			enabled = false
		}
	}
	if enabled {
		logging.Debug("Cache: enabled, root: %s", root)
	} else {
		logging.Info("Cache: disabled, thumbnails will be generated on every request")
	}
	return &Cache{root: root, enabled: enabled}
}

// Enabled reports whether the cache persists entries.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Root returns the cache directory.
func (c *Cache) Root() string {
	return c.root
}

// Lookup returns the stored image for key, if the cache file exists and
// decodes cleanly. A file that exists but fails to decode (truncated or
// corrupt) is treated as a miss so the caller regenerates it.
func (c *Cache) Lookup(key CacheKey) (image.Image, bool) {
	if !c.enabled {
		return nil, false
	}

	f, err := os.Open(c.entryPath(key))
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		logging.Debug("Cache: corrupt entry %s, treating as miss: %v", key.Filename(), err)
		metrics.CacheLookupsTotal.WithLabelValues("corrupt").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return img, true
}

// Store persists img under key. The entry is written to a temp file and
// renamed into place so a concurrent reader never sees a partial write.
// Failures are logged and swallowed; the thumbnail is still returned
// in-memory by the caller.
func (c *Cache) Store(key CacheKey, img image.Image) {
	if !c.enabled {
		return
	}

	data, err := EncodePNG(img)
	if err != nil {
		logging.Warn("Cache: failed to encode %s: %v", key.Filename(), err)
		metrics.CacheStoresTotal.WithLabelValues("error").Inc()
		return
	}

	tmp, err := os.CreateTemp(c.root, ".tmp-*")
	if err != nil {
		logging.Warn("Cache: failed to create temp file for %s: %v", key.Filename(), err)
		metrics.CacheStoresTotal.WithLabelValues("error").Inc()
		return
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		logging.Warn("Cache: failed to write %s: %v", key.Filename(), err)
		metrics.CacheStoresTotal.WithLabelValues("error").Inc()
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		logging.Warn("Cache: failed to close temp file for %s: %v", key.Filename(), err)
		metrics.CacheStoresTotal.WithLabelValues("error").Inc()
		return
	}

	if err := os.Rename(tmp.Name(), c.entryPath(key)); err != nil {
		os.Remove(tmp.Name())
		logging.Warn("Cache: failed to store %s: %v", key.Filename(), err)
		metrics.CacheStoresTotal.WithLabelValues("error").Inc()
		return
	}

	metrics.CacheStoresTotal.WithLabelValues("success").Inc()
	logging.Debug("Cache: stored %s", key.Filename())
}

// ClearAll deletes every cache file under the root and returns the number
// removed. Leftover temp files from interrupted stores are cleaned up too
// but not counted.
func (c *Cache) ClearAll() (int, error) {
	if !c.enabled {
		return 0, nil
	}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		isEntry := strings.HasSuffix(name, ".png")
		if !isEntry && !strings.HasPrefix(name, ".tmp-") {
			continue
		}
		if err := os.Remove(filepath.Join(c.root, name)); err != nil {
			logging.Warn("Cache: failed to remove %s: %v", name, err)
			continue
		}
		if isEntry {
			removed++
		}
	}

	metrics.CacheFilesRemoved.Add(float64(removed))
	logging.Info("Cache: cleared %d entries", removed)
	return removed, nil
}

// Size returns the total byte size and entry count of the cache.
func (c *Cache) Size() (int64, int) {
	if !c.enabled {
		return 0, 0
	}

	entries, err := os.ReadDir(c.root)
	if err != nil {
		return 0, 0
	}

	var bytes int64
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		if info, err := entry.Info(); err == nil {
			bytes += info.Size()
			count++
		}
	}
	return bytes, count
}

func (c *Cache) entryPath(key CacheKey) string {
	return filepath.Join(c.root, key.Filename())
}
