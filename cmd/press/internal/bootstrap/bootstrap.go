package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	press "github.com/valarz/go-press"
	markdowncmd "github.com/valarz/go-press/internal/commands/markdown"
	"github.com/valarz/go-press/internal/di"
	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

// Options captures configuration for press CLI bootstraps. Non-empty fields
// override values loaded from ConfigPath.
type Options struct {
	ConfigPath string
	PostsDir   string
	OutputDir  string
	Pattern    string
	Engine     string
	// RequireMarkdown builds the Markdown service, which needs PostsDir to exist.
	RequireMarkdown bool
	LoggerProvider  interfaces.LoggerProvider
}

// Module wraps the press module and the collaborators used by the CLIs.
type Module struct {
	Module   *press.Module
	Articles press.ArticleStore
	Service  interfaces.MarkdownService
	Logger   interfaces.Logger
	// Gates reflects the loaded feature flags. The zero value enables everything.
	Gates markdowncmd.FeatureGates
}

// Close releases the underlying module when one was built.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// BuildModule constructs a press module from the config file and overrides.
func BuildModule(ctx context.Context, opts Options) (*Module, error) {
	cfg, err := press.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if trimmed := strings.TrimSpace(opts.PostsDir); trimmed != "" {
		cfg.Markdown.PostsDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
		cfg.Ingest.OutputDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Markdown.Pattern = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Engine); trimmed != "" {
		cfg.Markdown.Engine = trimmed
	}

	diOpts := []di.Option{di.WithLogWriter(os.Stderr)}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := press.New(ctx, cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise press module: %w", err)
	}

	out := &Module{
		Module:   module,
		Articles: module.Articles(),
		Logger:   logging.MarkdownLogger(module.Container().LoggerProvider()),
		Gates: markdowncmd.FeatureGates{
			IngestEnabled: func() bool { return cfg.Features.Ingest },
		},
	}
	if opts.RequireMarkdown {
		service, err := module.Markdown()
		if err != nil {
			_ = module.Close()
			return nil, fmt.Errorf("markdown service: %w", err)
		}
		out.Service = service
	}
	return out, nil
}
