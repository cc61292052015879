package markdown

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valarz/go-press/internal/shards"
	"github.com/valarz/go-press/pkg/interfaces"
)

func TestServiceLoad(t *testing.T) {
	svc, _ := newTestService(t, Config{})

	doc, err := svc.Load(context.Background(), "posts/hello.md")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.FrontMatter.Get("title") != "Hello" {
		t.Fatalf("unexpected front matter %#v", doc.FrontMatter)
	}
	if string(doc.BodyHTML) != "<h1>Hello</h1>\n<p>First <strong>post</strong>.</p>" {
		t.Fatalf("unexpected BodyHTML %q", doc.BodyHTML)
	}
	if doc.Fingerprint == "" || !strings.HasPrefix(doc.Fingerprint, "posts/hello.md:") {
		t.Fatalf("expected fingerprint, got %q", doc.Fingerprint)
	}
}

func TestServiceLoadDirectory(t *testing.T) {
	svc, _ := newTestService(t, Config{Recursive: true})

	docs, err := svc.LoadDirectory(context.Background(), "posts", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].FilePath != "posts/archive/old.md" || docs[1].FilePath != "posts/hello.md" {
		t.Fatalf("unexpected order %s, %s", docs[0].FilePath, docs[1].FilePath)
	}
	for _, doc := range docs {
		if len(doc.BodyHTML) == 0 {
			t.Fatalf("expected BodyHTML for %s", doc.FilePath)
		}
	}

	no := false
	docs, err = svc.LoadDirectory(context.Background(), "posts", interfaces.LoadOptions{Recursive: &no})
	if err != nil {
		t.Fatalf("LoadDirectory override: %v", err)
	}
	if len(docs) != 1 || docs[0].FilePath != "posts/hello.md" {
		t.Fatalf("expected only posts/hello.md without recursion, got %d docs", len(docs))
	}
}

func TestServiceRenderEngines(t *testing.T) {
	subset, _ := newTestService(t, Config{})
	html, err := subset.Render(context.Background(), []byte("**hi** <b>"), interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(html) != "<p><strong>hi</strong> &lt;b&gt;</p>" {
		t.Fatalf("unexpected subset output %q", html)
	}

	goldmark, _ := newTestService(t, Config{Engine: EngineGoldmark})
	html, err = goldmark.Render(context.Background(), []byte("| a |\n|---|\n| b |"), interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("Render goldmark: %v", err)
	}
	if !strings.Contains(string(html), "<table>") {
		t.Fatalf("expected GFM table from goldmark, got %q", html)
	}

	if _, err := NewParser("textile", interfaces.ParseOptions{}); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("expected ErrUnknownEngine, got %v", err)
	}
}

func TestServiceIngest(t *testing.T) {
	svc, base := newTestService(t, Config{OutputDir: "data"},
		WithClock(func() time.Time { return ingestClock }),
		WithRunID(func() string { return "svc-run" }),
	)
	out := filepath.Join(base, "data")

	result, err := svc.Ingest(context.Background(), "posts", interfaces.IngestOptions{})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.RunID != "svc-run" || len(result.Created) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	articles, err := shards.ReadAll(out)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(articles) != 1 || articles[0].Slug != "hello" {
		t.Fatalf("unexpected articles %+v", articles)
	}
}

func TestServiceIngestRequiresOutput(t *testing.T) {
	svc, _ := newTestService(t, Config{})
	if _, err := svc.Ingest(context.Background(), "posts", interfaces.IngestOptions{}); !errors.Is(err, ErrOutputRequired) {
		t.Fatalf("expected ErrOutputRequired, got %v", err)
	}
}

func newTestService(tb testing.TB, cfg Config, opts ...ServiceOption) (*Service, string) {
	tb.Helper()

	base := tb.TempDir()
	files := map[string]string{
		"posts/hello.md":       "---\ntitle: Hello\ncategory: life\n---\n# Hello\n\nFirst **post**.",
		"posts/archive/old.md": "Old *notes*.",
		"posts/_draft.md":      "# not yet",
	}
	for name, body := range files {
		full := filepath.Join(base, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			tb.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}

	cfg.BasePath = base
	if cfg.OutputDir != "" {
		cfg.OutputDir = filepath.Join(base, cfg.OutputDir)
	}
	svc, err := NewService(cfg, nil, opts...)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc, base
}
