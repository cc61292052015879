package press

import "github.com/valarz/go-press/internal/runtimeconfig"

var (
	ErrStoreProviderUnknown     = runtimeconfig.ErrStoreProviderUnknown
	ErrStorePathRequired        = runtimeconfig.ErrStorePathRequired
	ErrBootstrapTimeoutInvalid  = runtimeconfig.ErrBootstrapTimeoutInvalid
	ErrMarkdownPostsDirRequired = runtimeconfig.ErrMarkdownPostsDirRequired
	ErrMarkdownEngineUnknown    = runtimeconfig.ErrMarkdownEngineUnknown
	ErrMarkdownSlugStyleUnknown = runtimeconfig.ErrMarkdownSlugStyleUnknown
	ErrExcerptLengthInvalid     = runtimeconfig.ErrExcerptLengthInvalid
	ErrIngestOutputDirRequired  = runtimeconfig.ErrIngestOutputDirRequired
	ErrIngestCronRequiresIngest = runtimeconfig.ErrIngestCronRequiresIngest
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	StoreConfig          = runtimeconfig.StoreConfig
	BootstrapConfig      = runtimeconfig.BootstrapConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	IngestConfig         = runtimeconfig.IngestConfig
	Features             = runtimeconfig.Features
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads an optional config file over the defaults and applies
// PRESS_ environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
