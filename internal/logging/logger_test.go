package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	WithStage(WithComponent(logger, "pipeline"), "voiceover").Info("stage started", String("engine", "piper"))

	out := buf.String()
	for _, fragment := range []string{"INFO", "pipeline · voiceover", "stage started", "engine=piper"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in output %q", fragment, out)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hello", String("key", "value"))
	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Fatalf("expected json attrs, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("quiet")
	logger.Warn("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info record should have been filtered: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestNewRunLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run", "pipeline.log")

	var buf bytes.Buffer
	logger, closer, err := NewRunLogger(path, Options{Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("run started")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "run started") {
		t.Fatalf("log file missing record: %q", data)
	}
	if !strings.Contains(buf.String(), "run started") {
		t.Fatalf("base writer missing record: %q", buf.String())
	}
}
