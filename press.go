package press

import (
	"context"
	"errors"
	"strings"

	markdowncmd "github.com/valarz/go-press/internal/commands/markdown"
	"github.com/valarz/go-press/internal/content"
	"github.com/valarz/go-press/internal/di"
	"github.com/valarz/go-press/internal/domain"
	"github.com/valarz/go-press/internal/markdown"
	"github.com/valarz/go-press/pkg/interfaces"
)

var (
	// ErrNavigationDisabled is returned by Adjacent when Features.Navigation is off.
	ErrNavigationDisabled = errors.New("press: navigation feature disabled")
	// ErrTagCloudDisabled is returned by TagCloud when Features.TagCloud is off.
	ErrTagCloudDisabled = errors.New("press: tag cloud feature disabled")
)

// ArticleStore exports the content store.
type ArticleStore = *content.Store

// MarkdownService exports the Markdown file workflow contract.
type MarkdownService = interfaces.MarkdownService

// MarkdownRenderer exports the display renderer contract.
type MarkdownRenderer = interfaces.MarkdownRenderer

// CommandHandlers exports the Markdown command handler set.
type CommandHandlers = markdowncmd.HandlerSet

// Module represents the top level publishing runtime façade.
type Module struct {
	container *di.Container
	renderer  MarkdownRenderer
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		container: container,
		renderer:  newRenderer(cfg.Markdown),
	}, nil
}

// newRenderer picks the display renderer. Goldmark output is always
// sanitised here since article bodies are untrusted.
func newRenderer(cfg MarkdownConfig) MarkdownRenderer {
	if strings.EqualFold(strings.TrimSpace(cfg.Engine), markdown.EngineGoldmark) {
		return markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: cfg.Parser.Extensions,
			Sanitize:   true,
			HardWraps:  cfg.Parser.HardWraps,
			SafeMode:   cfg.Parser.SafeMode,
		})
	}
	return markdown.NewSubsetRenderer()
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Articles returns the article and category store.
func (m *Module) Articles() ArticleStore {
	return m.container.ArticleStore()
}

// Markdown returns the Markdown service. It fails when the posts directory
// does not exist.
func (m *Module) Markdown() (MarkdownService, error) {
	svc, err := m.container.MarkdownService()
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// Commands returns the registered Markdown command handlers.
func (m *Module) Commands() (*CommandHandlers, error) {
	return m.container.Commands()
}

// Renderer returns the renderer used for stored article bodies.
func (m *Module) Renderer() MarkdownRenderer {
	return m.renderer
}

// RenderArticle renders the article body for display.
func (m *Module) RenderArticle(article *domain.Article) string {
	if article == nil {
		return m.renderer.Render("")
	}
	return m.renderer.Render(article.Content)
}

// Adjacent returns the neighbours of slug in publish order.
func (m *Module) Adjacent(ctx context.Context, slug string) (prev, next *domain.Article, err error) {
	if !m.container.Config.Features.Navigation {
		return nil, nil, ErrNavigationDisabled
	}
	return m.Articles().Adjacent(ctx, slug)
}

// TagCloud returns tag usage counts across every article.
func (m *Module) TagCloud(ctx context.Context) ([]content.TagCount, error) {
	if !m.container.Config.Features.TagCloud {
		return nil, ErrTagCloudDisabled
	}
	return m.Articles().TagCounts(ctx), nil
}

// Close releases the durable store and flushes loggers.
func (m *Module) Close() error {
	return m.container.Close()
}
