package obs

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func captureLog(t *testing.T, fn func()) map[string]any {
	t.Helper()
	logger := Logger()
	orig := logger.Writer()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(orig)

	fn()

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line")
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log is not valid JSON: %v", err)
	}
	return entry
}

func TestLogRequestStampsServiceAndDefaults(t *testing.T) {
	entry := captureLog(t, func() {
		LogRequest(map[string]any{"msg": "config_saved", "section": "menu"})
	})

	if entry["service"] != "birlik-cms" {
		t.Fatalf("service tag missing: %v", entry["service"])
	}
	if entry["level"] != "info" {
		t.Fatalf("level must default to info, got %v", entry["level"])
	}
	if entry["ts"] == nil || entry["ts"] == "" {
		t.Fatalf("ts must be filled in")
	}
	if entry["section"] != "menu" {
		t.Fatalf("caller fields must survive: %v", entry["section"])
	}
}

func TestLogRequestKeepsExplicitLevel(t *testing.T) {
	entry := captureLog(t, func() {
		LogRequest(map[string]any{"msg": "probe_failed", "level": "error"})
	})

	if entry["level"] != "error" {
		t.Fatalf("explicit level must win, got %v", entry["level"])
	}
	if entry["service"] != "birlik-cms" {
		t.Fatalf("service tag missing")
	}
}
