package di

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	command "github.com/goliatone/go-command"

	adapterstorage "github.com/valarz/go-press/internal/adapters/storage"
	markdowncmd "github.com/valarz/go-press/internal/commands/markdown"
	"github.com/valarz/go-press/internal/content"
	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/internal/markdown"
	"github.com/valarz/go-press/internal/runtimeconfig"
	"github.com/valarz/go-press/pkg/interfaces"
	"github.com/valarz/go-press/pkg/storage"
)

// ScheduledIngestDirectory is the directory, relative to the posts
// directory, ingested by scheduled runs.
const ScheduledIngestDirectory = "."

// Container wires module dependencies from the runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	kv             storage.Store
	sources        *content.Sources
	parser         interfaces.MarkdownParser
	clock          func() time.Time
	runID          func() string
	registry       markdowncmd.CommandRegistry
	cron           markdowncmd.CronRegistrar

	store   *content.Store
	closers []func() error

	markdownOnce sync.Once
	markdownSvc  *markdown.Service
	markdownErr  error

	commandsOnce sync.Once
	commands     *markdowncmd.HandlerSet
	commandsErr  error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter redirects console and zap output built from Config.Logging.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithStore overrides the durable store built from Config.Store.
func WithStore(kv storage.Store) Option {
	return func(c *Container) {
		c.kv = kv
	}
}

// WithSources overrides the baseline sources resolved from Config.Bootstrap.
func WithSources(sources content.Sources) Option {
	return func(c *Container) {
		c.sources = &sources
	}
}

// WithMarkdownParser overrides the engine named by Config.Markdown.Engine.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// WithClock overrides the time source shared by the store and ingestion.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithRunID overrides the ingestion run identifier generator.
func WithRunID(fn func() string) Option {
	return func(c *Container) {
		c.runID = fn
	}
}

// WithCommandRegistry registers command handlers with reg when they are built.
func WithCommandRegistry(reg markdowncmd.CommandRegistry) Option {
	return func(c *Container) {
		c.registry = reg
	}
}

// WithCronRegistrar schedules ingestion through reg when Config.Ingest.Schedule is set.
func WithCronRegistrar(reg markdowncmd.CronRegistrar) Option {
	return func(c *Container) {
		c.cron = reg
	}
}

// NewContainer validates cfg and builds the content store. The Markdown
// service and command handlers are built on first use because they require
// the posts directory to exist.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, closer, err := NewLoggerProvider(cfg.Logging, c.logWriter)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
		if closer != nil {
			c.closers = append(c.closers, closer)
		}
	}

	if c.kv == nil {
		kv, err := adapterstorage.Open(ctx, storage.Config{
			Provider: cfg.Store.Provider,
			Path:     cfg.Store.Path,
		})
		if err != nil {
			return nil, err
		}
		c.kv = kv
		if closer, ok := kv.(storage.Closer); ok {
			c.closers = append(c.closers, closer.Close)
		}
	}
	c.warnIfVolatile()

	if c.sources == nil {
		sources, err := resolveSources(cfg.Bootstrap)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}
		c.sources = &sources
	}

	store, err := content.NewStore(c.kv, *c.sources,
		content.WithLogger(logging.ContentLogger(c.loggerProvider)),
		content.WithClock(c.clock),
		content.WithKeys(storeKeys(cfg.Store.Prefix)),
		content.WithDeriver(markdown.NewDeriver(deriverConfig(cfg.Markdown))),
	)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.store = store
	return c, nil
}

// LoggerProvider returns the provider shared by every module logger.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// ArticleStore returns the content store.
func (c *Container) ArticleStore() *content.Store {
	return c.store
}

// MarkdownService builds the Markdown service on first call.
func (c *Container) MarkdownService() (*markdown.Service, error) {
	c.markdownOnce.Do(func() {
		cfg := c.Config.Markdown
		svcCfg := markdown.Config{
			BasePath:        cfg.PostsDir,
			Pattern:         cfg.Pattern,
			Recursive:       cfg.Recursive,
			Engine:          cfg.Engine,
			Parser:          parseOptions(cfg.Parser),
			Deriver:         deriverConfig(cfg),
			Categories:      cfg.Categories,
			DefaultCategory: cfg.DefaultCategory,
		}
		if c.Config.Features.Ingest {
			svcCfg.OutputDir = c.Config.Ingest.OutputDir
		}
		c.markdownSvc, c.markdownErr = markdown.NewService(svcCfg, c.parser,
			markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)),
			markdown.WithIngestLogger(logging.IngestLogger(c.loggerProvider)),
			markdown.WithClock(c.clock),
			markdown.WithRunID(c.runID),
		)
	})
	return c.markdownSvc, c.markdownErr
}

// Commands builds and registers the Markdown command handlers on first
// call, scheduling ingestion when a cron registrar and schedule are set.
func (c *Container) Commands() (*markdowncmd.HandlerSet, error) {
	c.commandsOnce.Do(func() {
		svc, err := c.MarkdownService()
		if err != nil {
			c.commandsErr = err
			return
		}
		gates := markdowncmd.FeatureGates{
			IngestEnabled: func() bool { return c.Config.Features.Ingest },
		}
		set, err := markdowncmd.RegisterMarkdownCommands(c.registry, svc, c.loggerProvider, gates)
		if err != nil {
			c.commandsErr = err
			return
		}
		if schedule := strings.TrimSpace(c.Config.Ingest.Schedule); schedule != "" && c.cron != nil {
			err = markdowncmd.RegisterMarkdownCron(c.cron, set.Ingest,
				command.HandlerConfig{Expression: schedule},
				markdowncmd.IngestDirectoryCommand{Directory: ScheduledIngestDirectory},
			)
			if err != nil {
				c.commandsErr = err
				return
			}
			logging.CommandsLogger(c.loggerProvider).Info("markdown.ingest.scheduled", "expression", schedule)
		}
		c.commands = set
	})
	return c.commands, c.commandsErr
}

// Close releases the durable store and flushes file-backed loggers.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) warnIfVolatile() {
	reporter, ok := c.kv.(storage.CapabilityReporter)
	if !ok || reporter.Capabilities().Durable {
		return
	}
	logging.ContentLogger(c.loggerProvider).Warn("content.store.volatile", "provider", c.Config.Store.Provider)
}

func resolveSources(cfg runtimeconfig.BootstrapConfig) (content.Sources, error) {
	opts := content.SourceOptions{Timeout: cfg.Timeout}
	articles, err := content.ResolveSource(cfg.Articles, opts)
	if err != nil {
		return content.Sources{}, err
	}
	categories, err := content.ResolveSource(cfg.Categories, opts)
	if err != nil {
		return content.Sources{}, err
	}
	return content.Sources{Articles: articles, Categories: categories}, nil
}

func storeKeys(prefix string) content.Keys {
	prefix = strings.TrimSpace(prefix)
	return content.Keys{
		Articles:   prefix + content.DefaultArticlesKey,
		Categories: prefix + content.DefaultCategoriesKey,
		Sequence:   prefix + content.DefaultSequenceKey,
	}
}

func deriverConfig(cfg runtimeconfig.MarkdownConfig) markdown.DeriverConfig {
	return markdown.DeriverConfig{
		ExcerptLength: cfg.ExcerptLength,
		DefaultIcon:   cfg.DefaultIcon,
		SlugStyle:     cfg.SlugStyle,
	}
}

func parseOptions(cfg runtimeconfig.MarkdownParserConfig) interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), cfg.Extensions...),
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}
