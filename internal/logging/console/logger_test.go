package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/internal/logging/console"
)

func TestConsoleLoggerWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	provider := console.NewProvider(
		console.WithWriter(&buf),
		console.WithClock(func() time.Time { return now }),
		console.WithMinLevel(console.LevelDebug),
	)

	logger := logging.WithFields(provider.GetLogger("press.ingest"), map[string]any{"dry_run": false})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{"correlation_id": "req-1234"})
	logger = logger.WithContext(ctx)

	runID := uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999")
	logger.Info("markdown.ingest.completed",
		"run_id", runID,
		"created", 2,
		"shard", "articles-2024-03-14.json",
	)

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO [press.ingest] markdown.ingest.completed correlation_id=req-1234 created=2 dry_run=false run_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 shard=articles-2024-03-14.json"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.WithWriter(&buf))

	provider.GetLogger("").Warn("content.bootstrap.fallback", "error", errors.New("open data: missing"), "path", "", "dangling")

	got := strings.TrimSpace(buf.String())
	for _, part := range []string{
		` WARN content.bootstrap.fallback `,
		`error="open data: missing"`,
		`path=""`,
		`extra=dangling`,
	} {
		if !strings.Contains(got, part) {
			t.Fatalf("expected %q in %q", part, got)
		}
	}
}

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.WithWriter(&buf), console.WithMinLevel(console.ParseLevel("warning")))

	logger := provider.GetLogger("press.test")
	logger.Info("ignored.info")
	logger.Warn("included.warn")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "included.warn") {
		t.Fatalf("expected only the warn entry, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":  console.LevelTrace,
		" DEBUG": console.LevelDebug,
		"warn":   console.LevelWarn,
		"error":  console.LevelError,
		"fatal":  console.LevelFatal,
		"":       console.LevelInfo,
		"loud":   console.LevelInfo,
	}
	for name, want := range cases {
		if got := console.ParseLevel(name); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", name, got, want)
		}
	}
}
