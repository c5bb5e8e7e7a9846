package startup

import (
	"path/filepath"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("STARTUP_TEST_SET", "value")

	if got := getEnv("STARTUP_TEST_SET", "fallback"); got != "value" {
		t.Errorf("getEnv set = %q, want value", got)
	}
	if got := getEnv("STARTUP_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnv unset = %q, want fallback", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"0", true, false},
		{"", true, true},
		{"notabool", true, true},
		{"notabool", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("STARTUP_TEST_BOOL", tt.value)
			}
			if got := getEnvBool("STARTUP_TEST_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("STARTUP_TEST_INT", "42")
	if got := getEnvInt("STARTUP_TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}

	t.Setenv("STARTUP_TEST_INT", "notanint")
	if got := getEnvInt("STARTUP_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt invalid = %d, want default 7", got)
	}

	if got := getEnvInt("STARTUP_TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("getEnvInt unset = %d, want default 7", got)
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health", "health"},
		{"/api/library", "api/library"},
		{"/api/library/filter", "api/library"},
		{"/api/viewer/page", "api/viewer"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	t.Setenv("CACHE_DIR", cacheDir)
	t.Setenv("LIBRARY_DIR", "")
	t.Setenv("PORT", "")
	t.Setenv("METRICS_PORT", "")
	t.Setenv("THUMBNAIL_PAGE", "")
	t.Setenv("THUMBNAIL_WIDTH", "")
	t.Setenv("THUMBNAIL_HEIGHT", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Port != "8080" {
		t.Errorf("Port = %q, want 8080", config.Port)
	}
	if config.MetricsPort != "9090" {
		t.Errorf("MetricsPort = %q, want 9090", config.MetricsPort)
	}
	if config.ThumbnailPage != 0 || config.ThumbnailWidth != 100 || config.ThumbnailHeight != 140 {
		t.Errorf("thumbnail defaults = (%d, %d, %d), want (0, 100, 140)",
			config.ThumbnailPage, config.ThumbnailWidth, config.ThumbnailHeight)
	}
	if !config.CacheEnabled {
		t.Error("cache should be enabled with a writable cache dir")
	}
	if !filepath.IsAbs(config.CacheDir) {
		t.Errorf("CacheDir is not absolute: %q", config.CacheDir)
	}
}

func TestLoadConfigInvalidThumbnailSize(t *testing.T) {
	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("THUMBNAIL_WIDTH", "-5")
	t.Setenv("THUMBNAIL_HEIGHT", "140")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.ThumbnailWidth != 100 || config.ThumbnailHeight != 140 {
		t.Errorf("size = %dx%d, want fallback 100x140", config.ThumbnailWidth, config.ThumbnailHeight)
	}
}

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Version should not be empty")
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should not be empty")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("OS and Arch should be populated")
	}
}
