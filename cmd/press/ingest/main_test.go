package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/valarz/go-press/cmd/press/internal/bootstrap"
	markdowncmd "github.com/valarz/go-press/internal/commands/markdown"
	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

type stubMarkdownService struct {
	ingestCalls int
	ingestDir   string
	options     interfaces.IngestOptions
	result      *interfaces.IngestResult
}

func (s *stubMarkdownService) Load(context.Context, string) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) Ingest(_ context.Context, dir string, opts interfaces.IngestOptions) (*interfaces.IngestResult, error) {
	s.ingestCalls++
	s.ingestDir = dir
	s.options = opts
	return s.result, nil
}

func withStubBuilder(t *testing.T, svc *stubMarkdownService) *bootstrap.Options {
	t.Helper()
	original := moduleBuilder
	t.Cleanup(func() { moduleBuilder = original })

	captured := &bootstrap.Options{}
	moduleBuilder = func(_ context.Context, opts bootstrap.Options) (*bootstrap.Module, error) {
		*captured = opts
		return &bootstrap.Module{Service: svc, Logger: logging.NoOp()}, nil
	}
	return captured
}

func TestRunIngestUsesCommandHandler(t *testing.T) {
	svc := &stubMarkdownService{result: &interfaces.IngestResult{
		RunID:         "run-1",
		Shard:         "articles-2024-05-06.json",
		Created:       []interfaces.IngestedArticle{{ID: 3, Slug: "hello", SourceFile: "hello.md"}},
		TotalArticles: 3,
	}}
	opts := withStubBuilder(t, svc)

	var out bytes.Buffer
	err := runIngest(context.Background(), []string{"-posts", "content/posts", "-out", "public/data", "-dry-run"}, &out)
	if err != nil {
		t.Fatalf("runIngest returned error: %v", err)
	}
	if svc.ingestCalls != 1 || svc.ingestDir != "." {
		t.Fatalf("expected one ingest of the posts root, got %d %q", svc.ingestCalls, svc.ingestDir)
	}
	if !svc.options.DryRun {
		t.Fatal("expected dry run forwarded")
	}
	if opts.PostsDir != "content/posts" || opts.OutputDir != "public/data" || !opts.RequireMarkdown {
		t.Fatalf("unexpected bootstrap options %#v", opts)
	}
	if !strings.Contains(out.String(), "converted hello.md -> #3 hello") {
		t.Fatalf("unexpected summary %q", out.String())
	}
}

func TestRunIngestPrintsJSON(t *testing.T) {
	svc := &stubMarkdownService{result: &interfaces.IngestResult{RunID: "run-2", Skipped: []string{"a.md"}}}
	withStubBuilder(t, svc)

	var out bytes.Buffer
	if err := runIngest(context.Background(), []string{"-json"}, &out); err != nil {
		t.Fatalf("runIngest returned error: %v", err)
	}
	if !strings.Contains(out.String(), `"runId": "run-2"`) {
		t.Fatalf("expected JSON result, got %q", out.String())
	}
}

func TestRunIngestBootstrapFailure(t *testing.T) {
	original := moduleBuilder
	t.Cleanup(func() { moduleBuilder = original })
	boom := errors.New("no posts dir")
	moduleBuilder = func(context.Context, bootstrap.Options) (*bootstrap.Module, error) {
		return nil, boom
	}

	if err := runIngest(context.Background(), nil, &bytes.Buffer{}); !errors.Is(err, boom) {
		t.Fatalf("expected bootstrap error, got %v", err)
	}
}

func TestRunIngestJSONIncludesFailureReason(t *testing.T) {
	svc := &stubMarkdownService{result: &interfaces.IngestResult{
		RunID:  "run-3",
		Failed: []interfaces.IngestFailure{{Path: "broken.md", Err: errors.New("permission denied")}},
	}}
	withStubBuilder(t, svc)

	var out bytes.Buffer
	if err := runIngest(context.Background(), []string{"-json"}, &out); err != nil {
		t.Fatalf("runIngest returned error: %v", err)
	}
	if !strings.Contains(out.String(), `"path": "broken.md"`) || !strings.Contains(out.String(), `"error": "permission denied"`) {
		t.Fatalf("expected failure path and reason, got %q", out.String())
	}
}

func TestRunIngestHonoursIngestFeatureFlag(t *testing.T) {
	original := moduleBuilder
	t.Cleanup(func() { moduleBuilder = original })
	svc := &stubMarkdownService{result: &interfaces.IngestResult{}}
	moduleBuilder = func(context.Context, bootstrap.Options) (*bootstrap.Module, error) {
		return &bootstrap.Module{
			Service: svc,
			Logger:  logging.NoOp(),
			Gates:   markdowncmd.FeatureGates{IngestEnabled: func() bool { return false }},
		}, nil
	}

	err := runIngest(context.Background(), nil, &bytes.Buffer{})
	if !errors.Is(err, markdowncmd.ErrIngestFeatureDisabled) {
		t.Fatalf("expected disabled feature error, got %v", err)
	}
	if svc.ingestCalls != 0 {
		t.Fatalf("expected no ingestion, got %d calls", svc.ingestCalls)
	}
}
