package content_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	adapterstorage "github.com/valarz/go-press/internal/adapters/storage"
	"github.com/valarz/go-press/internal/content"
)

func TestResolveSource(t *testing.T) {
	cases := []struct {
		location string
		want     string
	}{
		{"data/articles.json", "data/articles.json"},
		{"file:///srv/data/articles.json", "/srv/data/articles.json"},
		{"https://example.com/data/articles.json", "https://example.com/data/articles.json"},
		{"shards:data/articles", "shards:data/articles"},
	}
	for _, tc := range cases {
		source, err := content.ResolveSource(tc.location, content.SourceOptions{})
		if err != nil {
			t.Fatalf("ResolveSource(%q): %v", tc.location, err)
		}
		if source.Location() != tc.want {
			t.Fatalf("ResolveSource(%q).Location() = %q, want %q", tc.location, source.Location(), tc.want)
		}
	}

	if source, err := content.ResolveSource("  ", content.SourceOptions{}); err != nil || source != nil {
		t.Fatalf("expected nil source for empty location, got %v, %v", source, err)
	}
	for _, bad := range []string{"ftp://example.com/a.json", "shards:"} {
		if _, err := content.ResolveSource(bad, content.SourceOptions{}); !errors.Is(err, content.ErrSourceLocation) {
			t.Fatalf("expected ErrSourceLocation for %q, got %v", bad, err)
		}
	}
}

func TestFileSourceBootstrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	if err := os.WriteFile(path, []byte(baselineCategories), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	source, err := content.ResolveSource(path, content.SourceOptions{})
	if err != nil {
		t.Fatalf("ResolveSource: %v", err)
	}

	store, _ := content.NewStore(adapterstorage.NewMemoryStore(), content.Sources{Categories: source})
	if got := store.ListCategories(context.Background(), content.CategoryFilter{Type: "article"}); len(got) != 2 {
		t.Fatalf("expected 2 article categories from file baseline, got %+v", got)
	}
}

func TestHTTPSourceBootstrap(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/data/articles.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(baselineArticles))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	articles, err := content.ResolveSource(server.URL+"/data/articles.json", content.SourceOptions{Timeout: time.Second})
	if err != nil {
		t.Fatalf("ResolveSource articles: %v", err)
	}
	categories, err := content.ResolveSource(server.URL+"/data/missing.json", content.SourceOptions{})
	if err != nil {
		t.Fatalf("ResolveSource categories: %v", err)
	}

	kv := adapterstorage.NewMemoryStore()
	store, _ := content.NewStore(kv, content.Sources{Articles: articles, Categories: categories})
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := store.List(ctx, content.ListFilter{}).Total; got != 4 {
		t.Fatalf("expected 4 articles from HTTP baseline, got %d", got)
	}
	raw, _ := kv.Get(ctx, content.DefaultCategoriesKey)
	if string(raw) != "[]" {
		t.Fatalf("expected 404 baseline to fall back to empty, got %q", raw)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected exactly one request per collection, got %d", hits.Load())
	}
}

func TestHTTPSourceHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	source := content.NewHTTPSource(server.URL, content.SourceOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := source.Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
