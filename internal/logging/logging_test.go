package logging

import (
	"testing"
)

func TestLogLevelOrdering(t *testing.T) {
	levels := []LogLevel{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for i := 0; i < len(levels)-1; i++ {
		if levels[i] >= levels[i+1] {
			t.Errorf("log levels should be in ascending order: %v >= %v", levels[i], levels[i+1])
		}
	}
}

func TestGetLevelIsStable(t *testing.T) {
	// The level is resolved once per process; repeated calls must agree.
	first := GetLevel()
	if second := GetLevel(); second != first {
		t.Errorf("GetLevel() = %v then %v, want a stable value", first, second)
	}
	if first < LevelDebug || first > LevelError {
		t.Errorf("GetLevel() = %v, outside the defined levels", first)
	}
}

func TestIsDebugEnabledMatchesLevel(t *testing.T) {
	want := GetLevel() <= LevelDebug
	if got := IsDebugEnabled(); got != want {
		t.Errorf("IsDebugEnabled() = %v, want %v for level %v", got, want, GetLevel())
	}
}

func TestLoggingFunctions(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Debug", func() { Debug("test message") }},
		{"Info", func() { Info("test message") }},
		{"Warn", func() { Warn("test message") }},
		{"Error", func() { Error("test message") }},
		{"Debug with args", func() { Debug("test %s %d", "message", 123) }},
		{"Info with args", func() { Info("test %s %d", "message", 123) }},
		{"Warn with args", func() { Warn("test %s %d", "message", 123) }},
		{"Error with args", func() { Error("test %s %d", "message", 123) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("%s panicked: %v", tt.name, r)
				}
			}()
			tt.fn()
		})
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
