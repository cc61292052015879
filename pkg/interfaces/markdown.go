package interfaces

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// MarkdownRenderer converts an article body into display markup. Implementations
// are total: every input, including an empty one, yields markup.
type MarkdownRenderer interface {
	Render(body string) string
}

// MarkdownParser defines how raw Markdown bytes are converted into HTML by
// engines that may fail, such as full CommonMark parsers.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes the file workflows used by the CLIs: loading
// documents, rendering bodies, and ingesting a directory into shards.
type MarkdownService interface {
	Load(ctx context.Context, path string) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
	Ingest(ctx context.Context, dir string, opts IngestOptions) (*IngestResult, error)
}

// Document represents a Markdown file with parsed metadata and body.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	Size         int64
	// Fingerprint identifies this revision of the file (path, mtime, length)
	// so ingestion can skip documents it has already converted.
	Fingerprint string
	// Malformed is set when a metadata block was opened but could not be
	// parsed; the whole file is then treated as body.
	Malformed bool
}

// FrontMatter holds the `key: value` pairs of a document's metadata block.
// Keys are stored as written; values are trimmed strings.
type FrontMatter map[string]string

// Get returns the trimmed value for key.
func (fm FrontMatter) Get(key string) string {
	if fm == nil {
		return ""
	}
	return strings.TrimSpace(fm[key])
}

// Has reports whether key was present with a non-empty value.
func (fm FrontMatter) Has(key string) bool {
	return fm.Get(key) != ""
}

// Tags splits the comma separated tags value, dropping empty entries.
func (fm FrontMatter) Tags() []string {
	raw := fm.Get("tags")
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// Featured is true only for the literal value "true".
func (fm FrontMatter) Featured() bool {
	return fm.Get("featured") == "true"
}

// LoadOptions fine-tunes how documents are discovered from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
}

// IngestOptions controls a single ingestion run.
type IngestOptions struct {
	Pattern string
	DryRun  bool
	// Force ignores recorded fingerprints and converts every document.
	Force bool
}

// IngestedArticle summarises an article written by an ingestion run.
type IngestedArticle struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Category   string `json:"category"`
	SourceFile string `json:"sourceFile"`
}

// IngestFailure records a document that could not be converted.
type IngestFailure struct {
	Path string
	Err  error
}

// MarshalJSON renders the failure reason as a string.
func (f IngestFailure) MarshalJSON() ([]byte, error) {
	out := struct {
		Path  string `json:"path"`
		Error string `json:"error,omitempty"`
	}{Path: f.Path}
	if f.Err != nil {
		out.Error = f.Err.Error()
	}
	return json.Marshal(out)
}

func (f IngestFailure) Error() string {
	if f.Err == nil {
		return f.Path
	}
	return f.Path + ": " + f.Err.Error()
}

// IngestResult reports the outcome of an ingestion run.
type IngestResult struct {
	RunID         string            `json:"runId"`
	Shard         string            `json:"shard,omitempty"`
	Created       []IngestedArticle `json:"created"`
	Skipped       []string          `json:"skipped"`
	Failed        []IngestFailure   `json:"failed"`
	TotalArticles int               `json:"totalArticles"`
	DryRun        bool              `json:"dryRun"`
}
