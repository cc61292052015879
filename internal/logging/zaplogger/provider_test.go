package zaplogger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/internal/logging/zaplogger"
)

func TestProviderWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	provider, err := zaplogger.NewProvider(zaplogger.Config{
		Level:  "debug",
		Format: "json",
		Writer: &buf,
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := logging.WithFields(provider.GetLogger("press.content"), map[string]any{"module": "press.content"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"correlation_id": "req-1"})
	logger.WithContext(ctx).Info("content.bootstrap.fallback", "collection", "articles")
	_ = provider.Sync()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode entry %q: %v", buf.String(), err)
	}
	if entry["message"] != "content.bootstrap.fallback" {
		t.Fatalf("unexpected message %v", entry["message"])
	}
	if entry["logger"] != "press.content" || entry["module"] != "press.content" {
		t.Fatalf("expected logger and module fields, got %v", entry)
	}
	if entry["collection"] != "articles" || entry["correlation_id"] != "req-1" {
		t.Fatalf("expected args and context fields, got %v", entry)
	}
}

func TestProviderFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	provider, err := zaplogger.NewProvider(zaplogger.Config{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	logger := provider.GetLogger("press.test")
	logger.Info("ignored.info")
	logger.Warn("included.warn")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "included.warn") {
		t.Fatalf("expected only the warn entry, got %q", buf.String())
	}
}

func TestProviderWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "press.log")
	provider, err := zaplogger.NewProvider(zaplogger.Config{
		Level:  "info",
		File:   file,
		Writer: &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	provider.GetLogger("press.ingest").Info("markdown.ingest.completed", "created", 1)

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "markdown.ingest.completed") {
		t.Fatalf("expected entry in log file, got %q", data)
	}
}

func TestNewProviderRejectsUnknownOptions(t *testing.T) {
	if _, err := zaplogger.NewProvider(zaplogger.Config{Format: "xml"}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := zaplogger.NewProvider(zaplogger.Config{Level: "loud"}); err == nil {
		t.Fatalf("expected unsupported level error")
	}
}
