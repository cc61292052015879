package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

// Outcome classifies how a command execution ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	// OutcomeInterrupted marks executions stopped by cancellation or a deadline.
	OutcomeInterrupted Outcome = "interrupted"
)

// Report is handed to the observer after every execution.
type Report struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Err       error
	Outcome   Outcome
}

// Observer receives a Report once a command finishes.
type Observer[T command.Message] func(ctx context.Context, msg T, report Report)

// LogObserver writes one structured entry per execution. Failures are logged
// at error level with the underlying cause attached.
func LogObserver[T command.Message](logger interfaces.Logger) Observer[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, report Report) {
		entry := logging.WithFields(logger, report.Fields)
		args := []any{"duration_ms", report.Duration.Milliseconds(), "outcome", string(report.Outcome)}
		if report.Outcome == OutcomeSucceeded {
			entry.Info("press.command.finished", args...)
			return
		}
		entry.Error("press.command.finished", append(args, "error", report.Err)...)
	}
}
