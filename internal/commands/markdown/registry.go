package markdowncmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/valarz/go-press/internal/commands"
	"github.com/valarz/go-press/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// HandlerSet groups the Markdown command handlers produced by RegisterMarkdownCommands.
type HandlerSet struct {
	Ingest *IngestDirectoryHandler
	Render *RenderDocumentHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	ingestHandlerOpts []commands.HandlerOption[IngestDirectoryCommand]
	renderHandlerOpts []commands.HandlerOption[RenderDocumentCommand]
}

// WithIngestHandlerOptions forwards options to the IngestDirectoryHandler constructor.
func WithIngestHandlerOptions(opts ...commands.HandlerOption[IngestDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.ingestHandlerOpts = append(cfg.ingestHandlerOpts, opts...)
	}
}

// WithRenderHandlerOptions forwards options to the RenderDocumentHandler constructor.
func WithRenderHandlerOptions(opts ...commands.HandlerOption[RenderDocumentCommand]) Option {
	return func(cfg *options) {
		cfg.renderHandlerOpts = append(cfg.renderHandlerOpts, opts...)
	}
}

// RegisterMarkdownCommands builds the Markdown command handlers and registers
// them with reg when it is non-nil.
func RegisterMarkdownCommands(reg CommandRegistry, service interfaces.MarkdownService, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("markdown command registration: service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "markdown")

	set := &HandlerSet{
		Ingest: NewIngestDirectoryHandler(service, logger, gates, cfg.ingestHandlerOpts...),
		Render: NewRenderDocumentHandler(service, logger, cfg.renderHandlerOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Ingest); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Render); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// RegisterMarkdownCron schedules periodic ingestion runs of msg through reg.
// The handler executes with a background context.
func RegisterMarkdownCron(reg CronRegistrar, handler *IngestDirectoryHandler, cfg command.HandlerConfig, msg IngestDirectoryCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
