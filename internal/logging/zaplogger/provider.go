package zaplogger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

// Config captures the options exposed by the zap adapter.
type Config struct {
	Level  string
	Format string
	// File enables rotated file output in addition to the console writer.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Writer replaces stdout for the console core.
	Writer io.Writer
}

// Provider wraps a zap logger so it satisfies the press logging interfaces.
type Provider struct {
	root *zap.Logger
}

// NewProvider builds a zap logger with a console core and, when File is set,
// a JSON core writing through lumberjack rotation.
func NewProvider(cfg Config) (*Provider, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		CallerKey:      "caller",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var consoleEncoder zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "console":
		consoleEncoder = zapcore.NewConsoleEncoder(encoderCfg)
	case "json":
		consoleEncoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		return nil, fmt.Errorf("logging: unsupported zap format %q", cfg.Format)
	}

	var out io.Writer = os.Stdout
	if cfg.Writer != nil {
		out = cfg.Writer
	}
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(out)), level),
	}

	if file := strings.TrimSpace(cfg.File); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("logging: create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    valueOr(cfg.MaxSizeMB, 10),
			MaxBackups: valueOr(cfg.MaxBackups, 5),
			MaxAge:     valueOr(cfg.MaxAgeDays, 7),
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), level))
	}

	root := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Provider{root: root}, nil
}

// GetLogger satisfies interfaces.LoggerProvider with named child loggers.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	logger := p.root
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		logger = logger.Named(trimmed)
	}
	return &adapter{inner: logger.Sugar()}
}

// Sync flushes buffered entries.
func (p *Provider) Sync() error {
	if p == nil || p.root == nil {
		return nil
	}
	return p.root.Sync()
}

type adapter struct {
	inner *zap.SugaredLogger
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

// Trace has no zap level of its own and is written at debug.
func (l *adapter) Trace(msg string, args ...any) { l.inner.Debugw(msg, args...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debugw(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Infow(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warnw(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Errorw(msg, args...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatalw(msg, args...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	return &adapter{inner: l.inner.With(sortedPairs(fields)...)}
}

func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	fields := logging.ContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return &adapter{inner: l.inner.With(sortedPairs(fields)...)}
}

func sortedPairs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, key, fields[key])
	}
	return pairs
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "trace", "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unsupported zap level %q", level)
	}
}

func valueOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
