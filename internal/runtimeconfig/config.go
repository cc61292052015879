package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrStoreProviderUnknown reports an unsupported durable store backend.
	ErrStoreProviderUnknown = errors.New("press config: store provider is invalid")
	// ErrStorePathRequired ensures durable backends know where to write.
	ErrStorePathRequired = errors.New("press config: store path is required for file and sqlite providers")
	// ErrBootstrapTimeoutInvalid rejects negative fetch timeouts.
	ErrBootstrapTimeoutInvalid = errors.New("press config: bootstrap timeout must be zero or positive")
	// ErrMarkdownPostsDirRequired ensures the loader has a root directory.
	ErrMarkdownPostsDirRequired = errors.New("press config: markdown posts directory is required")
	// ErrMarkdownEngineUnknown reports an unsupported rendering engine.
	ErrMarkdownEngineUnknown = errors.New("press config: markdown engine is invalid")
	// ErrMarkdownSlugStyleUnknown reports an unsupported slug style.
	ErrMarkdownSlugStyleUnknown = errors.New("press config: markdown slug style is invalid")
	// ErrExcerptLengthInvalid rejects negative excerpt lengths.
	ErrExcerptLengthInvalid = errors.New("press config: excerpt length must be zero or positive")
	// ErrIngestOutputDirRequired ensures ingestion has a shard directory.
	ErrIngestOutputDirRequired = errors.New("press config: ingest output directory is required when ingestion is enabled")
	// ErrIngestCronRequiresIngest keeps scheduled runs behind the ingest flag.
	ErrIngestCronRequiresIngest = errors.New("press config: ingest schedule requires the ingest feature")
	ErrLoggingProviderRequired  = errors.New("press config: logging provider is required")
	ErrLoggingProviderUnknown   = errors.New("press config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("press config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("press config: logging format is invalid")
)

// Config aggregates the runtime settings of the publishing module.
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	Markdown  MarkdownConfig  `mapstructure:"markdown"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Features  Features        `mapstructure:"features"`
}

// StoreConfig selects the durable key-value backend of the content store.
type StoreConfig struct {
	Provider string `mapstructure:"provider"`
	Path     string `mapstructure:"path"`
	// Prefix is prepended to the collection keys so several sites can share one backend.
	Prefix string `mapstructure:"prefix"`
}

// BootstrapConfig names the baseline locations used to seed empty collections.
type BootstrapConfig struct {
	Articles   string        `mapstructure:"articles"`
	Categories string        `mapstructure:"categories"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// MarkdownConfig captures filesystem, rendering, and derivation behaviour.
type MarkdownConfig struct {
	PostsDir        string               `mapstructure:"posts_dir"`
	Pattern         string               `mapstructure:"pattern"`
	Recursive       bool                 `mapstructure:"recursive"`
	Engine          string               `mapstructure:"engine"`
	Parser          MarkdownParserConfig `mapstructure:"parser"`
	SlugStyle       string               `mapstructure:"slug_style"`
	ExcerptLength   int                  `mapstructure:"excerpt_length"`
	DefaultIcon     string               `mapstructure:"default_icon"`
	Categories      map[string]string    `mapstructure:"categories"`
	DefaultCategory string               `mapstructure:"default_category"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Sanitize   bool     `mapstructure:"sanitize"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// IngestConfig controls where shards are written and whether runs are scheduled.
type IngestConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	// Schedule is a go-command cron expression such as "@every 1h". Empty disables it.
	Schedule string `mapstructure:"schedule"`
}

// Features toggles optional functionality.
type Features struct {
	Ingest     bool `mapstructure:"ingest"`
	Navigation bool `mapstructure:"navigation"`
	TagCloud   bool `mapstructure:"tag_cloud"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider   string   `mapstructure:"provider"`
	Level      string   `mapstructure:"level"`
	Format     string   `mapstructure:"format"`
	AddSource  bool     `mapstructure:"add_source"`
	Focus      []string `mapstructure:"focus"`
	File       string   `mapstructure:"file"`
	MaxSizeMB  int      `mapstructure:"max_size_mb"`
	MaxBackups int      `mapstructure:"max_backups"`
	MaxAgeDays int      `mapstructure:"max_age_days"`
	Compress   bool     `mapstructure:"compress"`
}

// DefaultConfig returns defaults matching the reference site layout.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Provider: "memory",
		},
		Bootstrap: BootstrapConfig{
			Articles:   "data/articles.json",
			Categories: "data/categories.json",
			Timeout:    10 * time.Second,
		},
		Markdown: MarkdownConfig{
			PostsDir:      "posts",
			Pattern:       "*.md",
			Recursive:     true,
			Engine:        "subset",
			SlugStyle:     "encoded",
			ExcerptLength: 150,
			DefaultIcon:   "📝",
			Categories:    map[string]string{},
		},
		Ingest: IngestConfig{
			OutputDir: "data/articles",
		},
		Features: Features{
			Ingest:     true,
			Navigation: true,
			TagCloud:   true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch provider := normalize(cfg.Store.Provider); provider {
	case "", "memory":
	case "file", "sqlite":
		if strings.TrimSpace(cfg.Store.Path) == "" {
			return fmt.Errorf("%w: %s", ErrStorePathRequired, provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStoreProviderUnknown, provider)
	}
	if cfg.Bootstrap.Timeout < 0 {
		return ErrBootstrapTimeoutInvalid
	}
	if strings.TrimSpace(cfg.Markdown.PostsDir) == "" {
		return ErrMarkdownPostsDirRequired
	}
	switch engine := normalize(cfg.Markdown.Engine); engine {
	case "", "subset", "goldmark":
	default:
		return fmt.Errorf("%w: %s", ErrMarkdownEngineUnknown, engine)
	}
	switch style := normalize(cfg.Markdown.SlugStyle); style {
	case "", "encoded", "normalized":
	default:
		return fmt.Errorf("%w: %s", ErrMarkdownSlugStyleUnknown, style)
	}
	if cfg.Markdown.ExcerptLength < 0 {
		return ErrExcerptLengthInvalid
	}
	if cfg.Features.Ingest && strings.TrimSpace(cfg.Ingest.OutputDir) == "" {
		return ErrIngestOutputDirRequired
	}
	if strings.TrimSpace(cfg.Ingest.Schedule) != "" && !cfg.Features.Ingest {
		return ErrIngestCronRequiresIngest
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zap":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	switch provider {
	case "gologger":
		switch normalize(format) {
		case "json", "console", "pretty":
			return true
		}
	case "zap":
		switch normalize(format) {
		case "json", "console":
			return true
		}
	case "console":
		return false
	}
	return false
}
