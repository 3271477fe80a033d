package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"moodpoet/internal/infra/config"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LoggerConfig{Level: "info", Format: "json"}, &buf)

	log.Info("poem served", "source", "openai")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v, output: %s", err, buf.String())
	}
	if entry["msg"] != "poem served" || entry["source"] != "openai" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewWithWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LoggerConfig{Level: "warn", Format: "text"}, &buf)

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LoggerConfig{Level: "debug", Format: "text"}, &buf)

	log.Debug("request", "api_key", "sk-live-123", "Authorization", "Bearer sk-live-123", "model", "gpt")

	out := buf.String()
	if strings.Contains(out, "sk-live-123") {
		t.Errorf("credential leaked: %q", out)
	}
	if !strings.Contains(out, "model=gpt") {
		t.Errorf("ordinary attrs should pass through: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestOpenOutputStd(t *testing.T) {
	w, closer, err := openOutput("stdout")
	if err != nil {
		t.Fatalf("openOutput(stdout): %v", err)
	}
	defer closer()
	if w != os.Stdout {
		t.Error("expected os.Stdout")
	}

	w, closer, err = openOutput("")
	if err != nil {
		t.Fatalf("openOutput(\"\"): %v", err)
	}
	defer closer()
	if w != os.Stderr {
		t.Error("expected os.Stderr for empty output")
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moodpoet.log")

	log, closer, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("to file")
	if err := closer(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file content = %q", data)
	}
}

func TestOpenOutputBadPath(t *testing.T) {
	if _, _, err := openOutput(filepath.Join(t.TempDir(), "missing", "dir", "x.log")); err == nil {
		t.Error("expected error for unwritable path")
	}
}
