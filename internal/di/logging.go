package di

import (
	"fmt"
	"io"
	"strings"

	"github.com/valarz/go-press/internal/logging/console"
	"github.com/valarz/go-press/internal/logging/gologger"
	"github.com/valarz/go-press/internal/logging/zaplogger"
	"github.com/valarz/go-press/internal/runtimeconfig"
	"github.com/valarz/go-press/pkg/interfaces"
)

// NewLoggerProvider builds the provider named by cfg.Provider. Console and
// zap output goes to w, or stdout when w is nil. The returned closer, when
// non-nil, flushes buffered output.
func NewLoggerProvider(cfg runtimeconfig.LoggingConfig, w io.Writer) (interfaces.LoggerProvider, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		return console.NewProvider(console.WithWriter(w), console.WithMinLevel(console.ParseLevel(cfg.Level))), nil, nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, nil, err
		}
		return provider, nil, nil
	case "zap":
		provider, err := zaplogger.NewProvider(zaplogger.Config{
			Level:      cfg.Level,
			Format:     cfg.Format,
			File:       cfg.File,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			Writer:     w,
		})
		if err != nil {
			return nil, nil, err
		}
		closer := func() error {
			// stdout cannot be synced on most terminals.
			_ = provider.Sync()
			return nil
		}
		return provider, closer, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown provider %q", cfg.Provider)
	}
}
