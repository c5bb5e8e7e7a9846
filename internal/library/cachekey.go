package library

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdf-library/internal/logging"
)

// Longest sanitized stem kept in a cache filename; the digest carries the
// uniqueness, the stem is only there for humans.
const maxStemLen = 48

// CacheKey identifies one cached thumbnail. Any change to the source
// file's modification time, the requested page, or the target dimensions
// produces a different key, so stale entries are never served.
type CacheKey struct {
	Path     string
	Page     int
	Degraded bool

	name string
}

// Filename returns the filesystem-safe cache file name for this key,
// in the form <sanitized-stem>_<hash>_p<page>.png.
func (k CacheKey) Filename() string {
	return k.name
}

// DeriveKey builds the cache key for one thumbnail request. It stats the
// source file to fold the modification time into the key; if the stat
// fails the key degrades to path+page only, which is logged as best-effort
// since a later content change at the same path will not invalidate it.
func DeriveKey(path string, page, width, height int) CacheKey {
	key := CacheKey{Path: path, Page: page}

	var seed string
	if info, err := os.Stat(path); err == nil {
		seed = fmt.Sprintf("%s|%d|%d|%dx%d", path, info.ModTime().UnixNano(), page, width, height)
	} else {
		logging.Debug("Cache key for %s degraded to path-only (stat failed: %v)", path, err)
		key.Degraded = true
		seed = fmt.Sprintf("%s|%d|%dx%d", path, page, width, height)
	}

	digest := sha256.Sum256([]byte(seed))
	hash := hex.EncodeToString(digest[:12]) // 96 bits

	key.name = fmt.Sprintf("%s_%s_p%d.png", sanitizeStem(path), hash, page)
	return key
}

// sanitizeStem reduces the source file's base name (without extension) to
// alphanumerics, hyphens, and underscores.
func sanitizeStem(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" {
		out = "pdf"
	}
	if len(out) > maxStemLen {
		out = out[:maxStemLen]
	}
	return out
}
