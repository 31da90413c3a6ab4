package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSetup_ReturnsJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "info")

	l.Info("listing published", slog.String("listing_id", "abc123"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON log output, got error: %v\nraw output: %s", err, buf.String())
	}

	if entry["msg"] != "listing published" {
		t.Errorf("msg = %q, want %q", entry["msg"], "listing published")
	}
	if entry["listing_id"] != "abc123" {
		t.Errorf("listing_id = %q, want %q", entry["listing_id"], "abc123")
	}
}

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&buf, "warn")

	l.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info log emitted at warn level: %s", buf.String())
	}

	l.Warn("should appear")
	if buf.Len() == 0 {
		t.Error("warn log not emitted at warn level")
	}
}

func TestParseLevel_UnknownDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != slog.LevelInfo {
		t.Errorf("parseLevel(verbose) = %v, want info", got)
	}
}
