package commands

import (
	"context"
	"maps"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

// DefaultCommandTimeout bounds a single command execution.
const DefaultCommandTimeout = 30 * time.Second

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler runs a command function behind message validation, a deadline and
// categorised errors, reporting every execution to an Observer.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	observer  Observer[T]
}

// NewHandler creates a handler that satisfies go-command's Commander interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.observer == nil {
		h.observer = LogObserver[T](h.logger)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute. Invalid messages never
// reach the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapInvalid(err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return wrapFailure(err)
	}

	report := Report{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
		Fields:    h.messageFields(msg),
	}
	report.Fields["command"] = report.Command
	logging.WithFields(h.logger, report.Fields).Debug("press.command.started")

	started := time.Now()
	err := h.exec(ctx, msg)
	if err == nil {
		err = ctx.Err()
	}
	report.Duration = time.Since(started)
	report.Err = err

	switch {
	case err == nil:
		report.Outcome = OutcomeSucceeded
	case isContextError(err):
		report.Outcome = OutcomeInterrupted
	default:
		report.Outcome = OutcomeFailed
	}
	h.observer(ctx, msg, report)
	if err != nil {
		return wrapFailure(err)
	}
	return nil
}

func (h *Handler[T]) messageFields(msg T) map[string]any {
	fields := map[string]any{}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		maps.Copy(fields, h.fields(msg))
	}
	return fields
}

// EnsureLogger returns a usable logger, defaulting to a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}

// WithTimeout overrides DefaultCommandTimeout. Zero or negative disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger injects the logger used during execution.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = EnsureLogger(logger)
	}
}

// WithOperation sets the operation name attached to every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds message derived fields to every log entry.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithObserver replaces the default LogObserver.
func WithObserver[T command.Message](observer Observer[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		if observer != nil {
			h.observer = observer
		}
	}
}
