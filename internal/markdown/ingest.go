package markdown

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/valarz/go-press/internal/domain"
	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/internal/shards"
	"github.com/valarz/go-press/pkg/interfaces"
)

var (
	ErrSourceRequired = errors.New("markdown ingest: source filesystem is required")
	ErrOutputRequired = errors.New("markdown ingest: output directory is required")
)

// IngestorConfig encapsulates the dependencies of an ingestion run.
type IngestorConfig struct {
	// Filesystem holds the source documents.
	Filesystem fs.FS
	BasePath   string
	// OutputDir receives shards, the shard index, and the processed ledger.
	OutputDir  string
	Pattern    string
	Recursive  bool
	Deriver    *Deriver
	Categories *CategoryMap
	Logger     interfaces.Logger
	Clock      func() time.Time
	RunID      func() string
}

// Ingestor converts new or changed documents into a fresh shard per run.
type Ingestor struct {
	loader     *Loader
	outputDir  string
	deriver    *Deriver
	categories *CategoryMap
	logger     interfaces.Logger
	now        func() time.Time
	runID      func() string
}

// NewIngestor validates cfg and fills optional collaborators with defaults.
func NewIngestor(cfg IngestorConfig) (*Ingestor, error) {
	if cfg.Filesystem == nil {
		return nil, ErrSourceRequired
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, ErrOutputRequired
	}

	ingestor := &Ingestor{
		loader: NewLoader(cfg.Filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		outputDir:  cfg.OutputDir,
		deriver:    cfg.Deriver,
		categories: cfg.Categories,
		logger:     cfg.Logger,
		now:        cfg.Clock,
		runID:      cfg.RunID,
	}
	if ingestor.deriver == nil {
		ingestor.deriver = NewDeriver(DeriverConfig{})
	}
	if ingestor.categories == nil {
		ingestor.categories = NewCategoryMap(nil, "")
	}
	if ingestor.logger == nil {
		ingestor.logger = logging.NoOp()
	}
	if ingestor.now == nil {
		ingestor.now = time.Now
	}
	if ingestor.runID == nil {
		ingestor.runID = func() string { return uuid.NewString() }
	}
	return ingestor, nil
}

// Ingest converts every document under dir whose fingerprint changed since
// the last run. Documents that cannot be read are reported in the result and
// never abort the batch. A run without new articles writes nothing.
func (i *Ingestor) Ingest(ctx context.Context, dir string, opts interfaces.IngestOptions) (*interfaces.IngestResult, error) {
	runID := i.runID()
	ctx = logging.ContextWithFields(ctx, map[string]any{"run_id": runID})
	logger := i.logger.WithContext(ctx)

	result := &interfaces.IngestResult{
		RunID:   runID,
		Created: []interfaces.IngestedArticle{},
		Skipped: []string{},
		Failed:  []interfaces.IngestFailure{},
		DryRun:  opts.DryRun,
	}

	ledger, err := shards.LoadLedger(i.outputDir)
	if err != nil {
		if !errors.Is(err, shards.ErrLedgerCorrupt) {
			return nil, err
		}
		logger.Warn("markdown.ingest.ledger_reset", "error", err)
	}

	paths, err := i.loader.Discover(ctx, dir, LoadParams{Pattern: opts.Pattern})
	if err != nil {
		return nil, err
	}
	logger.Info("markdown.ingest.discovered", "dir", dir, "count", len(paths))

	scan, err := shards.ScanDir(i.outputDir)
	if err != nil {
		return nil, err
	}
	for _, problem := range scan.Problems {
		logger.Warn("markdown.ingest.shard_unreadable", "error", problem)
	}

	slugs := make(map[string]struct{}, len(scan.Articles))
	for _, article := range scan.Articles {
		slugs[article.Slug] = struct{}{}
	}
	taken := func(slug string) bool {
		_, ok := slugs[slug]
		return ok
	}

	now := i.now()
	nextID := scan.MaxID() + 1
	articles := []domain.Article{}
	converted := map[string]string{}

	for _, current := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		docLogger := logging.WithMarkdownContext(logger, current, "ingest")
		loaded, err := i.loader.LoadFile(ctx, current)
		if err != nil {
			docLogger.Warn("markdown.ingest.read_failed", "error", err)
			result.Failed = append(result.Failed, interfaces.IngestFailure{Path: current, Err: err})
			continue
		}
		doc := loaded.Document

		if !opts.Force && ledger.Seen(doc.FilePath, doc.Fingerprint) {
			result.Skipped = append(result.Skipped, doc.FilePath)
			continue
		}
		if doc.Malformed {
			docLogger.Warn("markdown.ingest.malformed_frontmatter")
		}

		article := ArticleFromDocument(doc, nextID, i.deriver, i.categories, now)
		article.Slug = UniqueSlug(article.Slug, article.ID, taken)
		slugs[article.Slug] = struct{}{}
		nextID++

		articles = append(articles, article)
		converted[doc.FilePath] = doc.Fingerprint
		result.Created = append(result.Created, interfaces.IngestedArticle{
			ID:         article.ID,
			Title:      article.Title,
			Slug:       article.Slug,
			Category:   article.Category,
			SourceFile: article.SourceFile,
		})
		docLogger.Debug("markdown.ingest.converted", "id", article.ID, "slug", article.Slug)
	}

	index, indexErr := shards.LoadIndex(i.outputDir)
	if indexErr != nil {
		if !errors.Is(indexErr, shards.ErrIndexCorrupt) {
			return nil, indexErr
		}
		logger.Warn("markdown.ingest.index_reset", "error", indexErr)
	}
	result.TotalArticles = index.TotalArticles

	if len(articles) == 0 {
		logger.Info("markdown.ingest.up_to_date", "skipped", len(result.Skipped), "failed", len(result.Failed))
		return result, nil
	}
	if opts.DryRun {
		result.TotalArticles += len(articles)
		logger.Info("markdown.ingest.dry_run", "created", len(articles))
		return result, nil
	}

	name, shard, err := shards.WriteShard(i.outputDir, articles, now)
	if err != nil {
		return nil, err
	}
	index.Record(shards.IndexEntry{
		Filename:  name,
		Date:      shard.Date,
		Count:     shard.Count,
		CreatedAt: shard.GeneratedAt,
		RunID:     runID,
	}, shard.Count, now)
	if err := shards.SaveIndex(i.outputDir, index); err != nil {
		return nil, err
	}

	for docPath, fingerprint := range converted {
		ledger[docPath] = fingerprint
	}
	if err := shards.SaveLedger(i.outputDir, ledger); err != nil {
		return nil, err
	}

	result.Shard = name
	result.TotalArticles = index.TotalArticles
	logger.Info("markdown.ingest.completed",
		"shard", name,
		"created", len(articles),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
		"total", index.TotalArticles,
	)
	return result, nil
}
