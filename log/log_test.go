package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level %v, got %v",
			DefaultLevel, logger.Level())
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("expected default format %v, got %v",
			DefaultFormat, logger.Format())
	}
}

func TestMake_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelDebug), WithPretty(false))

	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged at Debug level")
	}

	buf.Reset()

	quiet := Make(&buf, WithLevel(LevelError), WithPretty(false))
	quiet.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	quiet.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestMake_TraceLevelRendered(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithPretty(false))
	logger.Trace("trace message")

	output := buf.String()

	if !strings.Contains(output, "trace message") {
		t.Fatal("trace message not logged at Trace level")
	}

	// The level attr must say TRACE, not slog's DEBUG-4.
	if !strings.Contains(output, "TRACE") {
		t.Errorf("expected level rendered as TRACE, got: %s", output)
	}

	if strings.Contains(output, "DEBUG-4") {
		t.Errorf("level leaked slog offset notation: %s", output)
	}
}

func TestMake_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON))
	logger.Info("hello", slog.Int("count", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if record["msg"] != "hello" {
		t.Errorf("expected msg %q, got %v", "hello", record["msg"])
	}

	if record["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", record["count"])
	}
}

func TestMake_EmptyTimeLayout_OmitsTimestamp(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout(""))
	logger.Info("no clock")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if _, ok := record["time"]; ok {
		t.Errorf("expected no time attr, got %v", record["time"])
	}
}

func TestLogger_With_CarriesAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON)).
		With(slog.String("component", "engine"))
	logger.Info("attached")

	if !strings.Contains(buf.String(), `"component":"engine"`) {
		t.Errorf("expected component attr in output: %s", buf.String())
	}
}

func TestLogger_Wrap_OverridesLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelError), WithPretty(false))
	noisy := logger.Wrap(WithLevel(LevelDebug))

	noisy.Debug("visible now")

	if !strings.Contains(buf.String(), "visible now") {
		t.Error("wrapped logger did not honor the new level")
	}
}
