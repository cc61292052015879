package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/valarz/go-press/pkg/interfaces"
)

const sampleDocument = `---
title: Sample Document
category: Design
tags: go, markdown, , press
source: https://example.com/a:b
featured: true
not a pair
---

# Sample Document

Body text.
`

func TestParseFrontMatter(t *testing.T) {
	fm, body, malformed, err := ParseFrontMatter([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if malformed {
		t.Fatalf("expected well formed document")
	}

	if fm.Get("title") != "Sample Document" {
		t.Fatalf("title mismatch, got %q", fm.Get("title"))
	}
	if fm.Get("source") != "https://example.com/a:b" {
		t.Fatalf("expected value split on first colon only, got %q", fm.Get("source"))
	}
	if tags := fm.Tags(); len(tags) != 3 || tags[0] != "go" || tags[2] != "press" {
		t.Fatalf("tags mismatch: %#v", tags)
	}
	if !fm.Featured() {
		t.Fatalf("expected featured flag")
	}
	if _, ok := fm["not a pair"]; ok {
		t.Fatalf("lines without a colon must be ignored: %#v", fm)
	}
	if !strings.HasPrefix(string(body), "# Sample Document") || !strings.HasSuffix(string(body), "Body text.") {
		t.Fatalf("body not trimmed correctly: %q", body)
	}
}

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	source := "# Just a body\n\nNo metadata here.\n"
	fm, body, malformed, err := ParseFrontMatter([]byte(source))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if malformed || len(fm) != 0 {
		t.Fatalf("expected empty metadata, got %#v (malformed=%v)", fm, malformed)
	}
	if string(body) != strings.TrimSpace(source) {
		t.Fatalf("expected whole document as body, got %q", body)
	}
}

func TestParseFrontMatterUnterminatedBlock(t *testing.T) {
	source := "---\ntitle: Never closed\n\nBody"
	fm, body, malformed, err := ParseFrontMatter([]byte(source))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if !malformed {
		t.Fatalf("expected malformed flag")
	}
	if len(fm) != 0 {
		t.Fatalf("expected empty metadata, got %#v", fm)
	}
	if string(body) != source {
		t.Fatalf("expected whole document as body, got %q", body)
	}
}

func TestParseFrontMatterLongLine(t *testing.T) {
	title := strings.Repeat("x", 70000)
	source := "---\ntitle: " + title + "\n---\n\nBody text."
	fm, body, malformed, err := ParseFrontMatter([]byte(source))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if malformed {
		t.Fatalf("expected a closed block to decode")
	}
	if fm["title"] != title {
		t.Fatalf("expected %d character title, got %d", len(title), len(fm["title"]))
	}
	if string(body) != "Body text." {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestBuildDocument(t *testing.T) {
	modified := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	doc, err := BuildDocument("posts/sample.md", []byte(sampleDocument), modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}

	if doc.FilePath != "posts/sample.md" {
		t.Fatalf("expected FilePath to be set, got %q", doc.FilePath)
	}
	if !doc.LastModified.Equal(modified) {
		t.Fatalf("expected LastModified to equal the provided timestamp")
	}
	want := Fingerprint("posts/sample.md", modified, int64(len(sampleDocument)))
	if doc.Fingerprint != want {
		t.Fatalf("expected fingerprint %q, got %q", want, doc.Fingerprint)
	}
	if !strings.HasPrefix(doc.Fingerprint, "posts/sample.md:1714979289000:") {
		t.Fatalf("expected path:mtime:length fingerprint, got %q", doc.Fingerprint)
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_SanitizeStripsScripts(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("Hello\n\n<script>alert(1)</script>\n\n[x](javascript:alert(1))"), interfaces.ParseOptions{
		Sanitize: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if strings.Contains(string(html), "<script") || strings.Contains(string(html), "javascript:") {
		t.Fatalf("expected sanitised output, got %q", html)
	}
}

func TestGoldmarkParser_RenderEmptyBody(t *testing.T) {
	if got := NewGoldmarkParser(interfaces.ParseOptions{}).Render("  "); got != emptyBodyMarkup {
		t.Fatalf("expected placeholder, got %q", got)
	}
}
