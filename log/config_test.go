package log

import (
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Level
	}{
		{"trace", "trace", LevelTrace},
		{"trace_mixed_case", " Trace ", LevelTrace},
		{"debug", "debug", LevelDebug},
		{"info", "info", LevelInfo},
		{"warn", "warn", LevelWarn},
		{"error", "error", LevelError},
		{"unknown_falls_back", "verbose", DefaultLevel},
		{"empty_falls_back", "", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v",
					tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		expected string
		level    Level
	}{
		{"trace", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level(%d).String() = %q, want %q",
					tt.level, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Format
	}{
		{"json", "json", FormatJSON},
		{"json_mixed_case", " JSON ", FormatJSON},
		{"text", "text", FormatText},
		{"unknown_falls_back", "logfmt", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v",
					tt.input, got, tt.expected)
			}
		})
	}
}

func TestConfig_WithLevel_SetsLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		expected Level
	}{
		{"trace", LevelTrace, LevelTrace},
		{"debug", LevelDebug, LevelDebug},
		{"info", LevelInfo, LevelInfo},
		{"warn", LevelWarn, LevelWarn},
		{"error", LevelError, LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithLevel(tt.level)(config{})
			if c.level != tt.expected {
				t.Errorf("expected level %v, got %v", tt.expected, c.level)
			}
		})
	}
}

func TestConfig_WithOutput_NilDiscards(t *testing.T) {
	c := WithOutput(nil)(config{})
	if c.output == nil {
		t.Error("expected nil writer to be replaced, got nil")
	}
}

func TestLevels_IncludesTrace(t *testing.T) {
	found := false

	for name := range Levels() {
		if name == "trace" {
			found = true

			break
		}
	}

	if !found {
		t.Error("Levels() does not yield trace")
	}
}
