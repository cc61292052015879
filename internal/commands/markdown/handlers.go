package markdowncmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/valarz/go-press/internal/commands"
	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

const (
	ingestOperation = "markdown.ingest_directory"
	renderOperation = "markdown.render_document"
)

// ErrIngestFeatureDisabled is returned when ingestion is disabled at runtime.
var ErrIngestFeatureDisabled = errors.New("markdown command: ingest feature disabled")

var (
	_ command.Commander[IngestDirectoryCommand] = (*IngestDirectoryHandler)(nil)
	_ command.Commander[RenderDocumentCommand]  = (*RenderDocumentHandler)(nil)
)

// IngestDirectoryHandler runs markdown ingestion through the shared command handler.
type IngestDirectoryHandler struct {
	inner *commands.Handler[IngestDirectoryCommand]
}

// NewIngestDirectoryHandler creates a handler bound to the supplied Markdown service.
func NewIngestDirectoryHandler(service interfaces.MarkdownService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[IngestDirectoryCommand]) *IngestDirectoryHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg IngestDirectoryCommand) error {
		if !gates.ingestEnabled() {
			return ErrIngestFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Ingest(ctx, msg.Directory, interfaces.IngestOptions{
			Pattern: msg.Pattern,
			DryRun:  msg.DryRun,
			Force:   msg.Force,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"run_id":         result.RunID,
				"shard":          result.Shard,
				"created_count":  len(result.Created),
				"skipped_count":  len(result.Skipped),
				"failed_count":   len(result.Failed),
				"total_articles": result.TotalArticles,
				"dry_run":        msg.DryRun,
			}).Info("markdown.command.ingest_directory.completed")
			if msg.OnResult != nil {
				msg.OnResult(result)
			}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[IngestDirectoryCommand]{
		commands.WithLogger[IngestDirectoryCommand](baseLogger),
		commands.WithOperation[IngestDirectoryCommand](ingestOperation),
		commands.WithMessageFields(func(msg IngestDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Force {
				fields["force"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &IngestDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[IngestDirectoryCommand].
func (h *IngestDirectoryHandler) Execute(ctx context.Context, msg IngestDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderDocumentHandler loads a document and writes its rendered body.
type RenderDocumentHandler struct {
	inner *commands.Handler[RenderDocumentCommand]
}

// NewRenderDocumentHandler creates a handler bound to the supplied Markdown service.
func NewRenderDocumentHandler(service interfaces.MarkdownService, logger interfaces.Logger, opts ...commands.HandlerOption[RenderDocumentCommand]) *RenderDocumentHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RenderDocumentCommand) error {
		doc, err := service.Load(ctx, msg.Path)
		if err != nil {
			return err
		}
		html := doc.BodyHTML
		if msg.Sanitize {
			html, err = service.RenderDocument(ctx, doc, interfaces.ParseOptions{Sanitize: true})
			if err != nil {
				return err
			}
		}
		if doc.Malformed {
			logging.WithMarkdownContext(baseLogger, doc.FilePath, "render").Warn("markdown.command.render_document.malformed_frontmatter")
		}
		if _, err := msg.Output.Write(html); err != nil {
			return fmt.Errorf("markdown render: write output: %w", err)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderDocumentCommand]{
		commands.WithLogger[RenderDocumentCommand](baseLogger),
		commands.WithOperation[RenderDocumentCommand](renderOperation),
		commands.WithMessageFields(func(msg RenderDocumentCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDocumentHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderDocumentCommand].
func (h *RenderDocumentHandler) Execute(ctx context.Context, msg RenderDocumentCommand) error {
	return h.inner.Execute(ctx, msg)
}
