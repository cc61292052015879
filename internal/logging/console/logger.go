// Package console writes one key=value line per log entry. It is the default
// provider for CLIs and tests.
package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

// Level is the severity attached to a log entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a configured level name onto a Level. Unknown names yield
// LevelInfo.
func ParseLevel(name string) Level {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "WARNING" {
		return LevelWarn
	}
	for i, candidate := range levelNames {
		if candidate == name {
			return Level(i)
		}
	}
	return LevelInfo
}

// Option configures a Provider.
type Option func(*Provider)

// WithWriter sets the destination. Defaults to stdout.
func WithWriter(w io.Writer) Option {
	return func(p *Provider) {
		if w != nil {
			p.out = w
		}
	}
}

// WithClock overrides the entry timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// WithMinLevel drops entries below level. Defaults to LevelInfo.
func WithMinLevel(level Level) Option {
	return func(p *Provider) {
		p.min = level
	}
}

// Provider hands out loggers sharing one writer.
type Provider struct {
	out io.Writer
	now func() time.Time
	min Level
	mu  sync.Mutex
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds a console provider.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{out: os.Stdout, now: time.Now, min: LevelInfo}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// GetLogger returns a logger whose entries are tagged with name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	return &logger{provider: p, name: name}
}

func (p *Provider) write(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// best effort
	_, _ = io.WriteString(p.out, line)
}

type logger struct {
	provider *Provider
	name     string
	fields   map[string]any
	ctx      context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.emit(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.emit(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.emit(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.emit(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.emit(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.emit(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := *l
	next.fields = make(map[string]any, len(l.fields)+len(fields))
	maps.Copy(next.fields, l.fields)
	maps.Copy(next.fields, fields)
	return &next
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	next := *l
	next.ctx = ctx
	return &next
}

func (l *logger) emit(level Level, msg string, args []any) {
	if level < l.provider.min {
		return
	}
	fields := make(map[string]any, len(l.fields)+len(args)/2)
	maps.Copy(fields, l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["extra"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}

	var b strings.Builder
	b.WriteString(l.provider.now().UTC().Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	if l.name != "" {
		b.WriteString(" [")
		b.WriteString(l.name)
		b.WriteByte(']')
	}
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(render(fields[key]))
	}
	b.WriteByte('\n')
	l.provider.write(b.String())
}

func render(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		s = v
	case time.Time:
		s = v.UTC().Format(time.RFC3339Nano)
	case error:
		s = v.Error()
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}
