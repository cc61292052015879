package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

const (
	EngineSubset   = "subset"
	EngineGoldmark = "goldmark"
)

var ErrUnknownEngine = errors.New("markdown service: unknown engine")

// Config controls how the Markdown service discovers, renders, and ingests files.
type Config struct {
	BasePath  string
	OutputDir string
	Pattern   string
	Recursive bool
	Engine    string
	Parser    interfaces.ParseOptions
	Deriver   DeriverConfig
	// Categories overrides the label table used to normalise categories.
	Categories      map[string]string
	DefaultCategory string
}

// ServiceOption customises the service collaborators.
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service. The ingestor shares it
// unless WithIngestLogger is also given.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIngestLogger sets the logger used for ingestion runs.
func WithIngestLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.ingestLogger = logger
		}
	}
}

// WithClock overrides the time source used for derived dates and shards.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithRunID overrides the generator for ingestion run identifiers.
func WithRunID(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.runID = fn
		}
	}
}

// Service implements interfaces.MarkdownService for filesystem-backed documents.
type Service struct {
	cfg      Config
	parser   interfaces.MarkdownParser
	loader   *Loader
	ingestor *Ingestor
	deriver  *Deriver
	logger   interfaces.Logger
	now      func() time.Time
	runID    func() string

	// ingestLogger defaults to logger.
	ingestLogger interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// NewService constructs a Markdown service. When parser is nil, the engine
// named by cfg.Engine is used.
func NewService(cfg Config, parser interfaces.MarkdownParser, opts ...ServiceOption) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	if parser == nil {
		parser, err = NewParser(cfg.Engine, cfg.Parser)
		if err != nil {
			return nil, err
		}
	}

	s := &Service{
		cfg:     cfg,
		parser:  parser,
		deriver: NewDeriver(cfg.Deriver),
		logger:  logging.NoOp(),
		now:     time.Now,
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.ingestLogger == nil {
		s.ingestLogger = s.logger
	}

	if strings.TrimSpace(cfg.OutputDir) != "" {
		s.ingestor, err = NewIngestor(IngestorConfig{
			Filesystem: filesystem,
			BasePath:   cfg.BasePath,
			OutputDir:  cfg.OutputDir,
			Pattern:    cfg.Pattern,
			Recursive:  cfg.Recursive,
			Deriver:    s.deriver,
			Categories: NewCategoryMap(cfg.Categories, cfg.DefaultCategory),
			Logger:     s.ingestLogger,
			Clock:      s.now,
			RunID:      s.runID,
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewParser returns the renderer registered for engine.
func NewParser(engine string, defaults interfaces.ParseOptions) (interfaces.MarkdownParser, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSubset:
		return NewSubsetRenderer(), nil
	case EngineGoldmark:
		return NewGoldmarkParser(defaults), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// Deriver exposes the field deriver shared with the ingestor.
func (s *Service) Deriver() *Deriver {
	return s.deriver
}

// Load reads a single Markdown document relative to the configured base path
// and renders its body.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path))
	if err != nil {
		return nil, err
	}
	if err := s.renderDocument(ctx, result.Document, interfaces.ParseOptions{}); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every Markdown document within the supplied directory.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if err := s.renderDocument(ctx, result.Document, interfaces.ParseOptions{}); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}
	return docs, nil
}

// Render parses Markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderDocument converts the document's Markdown body into HTML using the configured parser.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	if err := s.renderDocument(ctx, doc, opts); err != nil {
		return nil, err
	}
	return doc.BodyHTML, nil
}

// Ingest converts new or changed documents under dir into a shard.
func (s *Service) Ingest(ctx context.Context, dir string, opts interfaces.IngestOptions) (*interfaces.IngestResult, error) {
	if s.ingestor == nil {
		return nil, ErrOutputRequired
	}
	return s.ingestor.Ingest(ctx, s.normalisePath(dir), opts)
}

func (s *Service) renderDocument(ctx context.Context, doc *interfaces.Document, overrides interfaces.ParseOptions) error {
	if doc == nil {
		return nil
	}
	html, err := s.Render(ctx, doc.Body, overrides)
	if err != nil {
		return fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
