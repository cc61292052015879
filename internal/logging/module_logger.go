// Package logging holds the module logger helpers shared by every press
// package. Providers live in the console, gologger and zaplogger subpackages.
package logging

import (
	"context"
	"strings"

	"github.com/valarz/go-press/pkg/interfaces"
)

// Module names passed to LoggerProvider.GetLogger.
const (
	rootModule     = "press"
	contentModule  = "press.content"
	markdownModule = "press.markdown"
	ingestModule   = "press.ingest"
	commandsModule = "press.commands"
)

const (
	fieldModule         = "module"
	fieldMarkdownPath   = "markdown_path"
	fieldMarkdownAction = "action"
)

// ModuleLogger asks provider for the logger named module and tags it with a
// module field. A nil provider, or one returning nil, yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		return NoOp()
	}
	return WithFields(logger, map[string]any{fieldModule: module})
}

// ContentLogger is the logger of the article store.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// MarkdownLogger is the logger of document loading and rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// IngestLogger is the logger of ingestion runs.
func IngestLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ingestModule)
}

// CommandsLogger is the logger of container level command wiring.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithMarkdownContext tags logger with a document path and the action being
// performed on it. Blank values are left out.
func WithMarkdownContext(logger interfaces.Logger, path, action string) interfaces.Logger {
	fields := map[string]any{}
	if path = strings.TrimSpace(path); path != "" {
		fields[fieldMarkdownPath] = path
	}
	if action = strings.TrimSpace(action); action != "" {
		fields[fieldMarkdownAction] = action
	}
	return WithFields(logger, fields)
}

// NoOp discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
