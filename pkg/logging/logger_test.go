package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		if l := New(level); l == nil || l.Logger == nil {
			t.Fatalf("New(%q) returned nil logger", level)
		}
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("info", &buf)
	l.Debug("hidden")
	l.Info("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be suppressed at info level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("info record missing: %s", out)
	}
}

func TestWithCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("info", &buf).With("business_id", "biz_123")
	l.Info("slot request")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["business_id"] != "biz_123" {
		t.Fatalf("expected business_id attribute, got %v", record)
	}
}
