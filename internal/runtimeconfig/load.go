package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. PRESS_STORE_PROVIDER.
const EnvPrefix = "PRESS"

// Load reads the optional config file at path (YAML, JSON, or TOML) over
// DefaultConfig, applies PRESS_ environment overrides, and validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("press config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("press config: decode: %w", err)
	}
	if cfg.Markdown.Categories == nil {
		cfg.Markdown.Categories = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve overrides for
// keys absent from the config file.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("store.provider", cfg.Store.Provider)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.prefix", cfg.Store.Prefix)

	v.SetDefault("bootstrap.articles", cfg.Bootstrap.Articles)
	v.SetDefault("bootstrap.categories", cfg.Bootstrap.Categories)
	v.SetDefault("bootstrap.timeout", cfg.Bootstrap.Timeout)

	v.SetDefault("markdown.posts_dir", cfg.Markdown.PostsDir)
	v.SetDefault("markdown.pattern", cfg.Markdown.Pattern)
	v.SetDefault("markdown.recursive", cfg.Markdown.Recursive)
	v.SetDefault("markdown.engine", cfg.Markdown.Engine)
	v.SetDefault("markdown.parser.extensions", cfg.Markdown.Parser.Extensions)
	v.SetDefault("markdown.parser.sanitize", cfg.Markdown.Parser.Sanitize)
	v.SetDefault("markdown.parser.hard_wraps", cfg.Markdown.Parser.HardWraps)
	v.SetDefault("markdown.parser.safe_mode", cfg.Markdown.Parser.SafeMode)
	v.SetDefault("markdown.slug_style", cfg.Markdown.SlugStyle)
	v.SetDefault("markdown.excerpt_length", cfg.Markdown.ExcerptLength)
	v.SetDefault("markdown.default_icon", cfg.Markdown.DefaultIcon)
	v.SetDefault("markdown.categories", cfg.Markdown.Categories)
	v.SetDefault("markdown.default_category", cfg.Markdown.DefaultCategory)

	v.SetDefault("ingest.output_dir", cfg.Ingest.OutputDir)
	v.SetDefault("ingest.schedule", cfg.Ingest.Schedule)

	v.SetDefault("features.ingest", cfg.Features.Ingest)
	v.SetDefault("features.navigation", cfg.Features.Navigation)
	v.SetDefault("features.tag_cloud", cfg.Features.TagCloud)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size_mb", cfg.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", cfg.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", cfg.Logging.Compress)
}
