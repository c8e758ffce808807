package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriterLoggerEmitsJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "info")
	l.Info("action.generate.done", map[string]any{"role": "Manager", "panels": "scenario"})
	l.Debug("hidden", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line at info level, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not json: %v", err)
	}
	if entry["msg"] != "action.generate.done" || entry["role"] != "Manager" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("x", map[string]any{"a": 1})
	l.Error("x", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("close nil logger: %v", err)
	}
}

func TestFileLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "integribot.log")
	l, err := NewLogger(Options{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	l.Error("boom", map[string]any{"error": "x"})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(body), `"boom"`) {
		t.Fatalf("expected entry in log file, got %q", body)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != ParseLevel("debug") {
		t.Fatalf("expected case-insensitive levels")
	}
	if ParseLevel("nope") != ParseLevel("info") {
		t.Fatalf("expected unknown level to default to info")
	}
}
