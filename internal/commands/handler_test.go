package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "press.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "press.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerObserverReceivesReport(t *testing.T) {
	var reports []Report
	execErr := errors.New("boom")
	fail := false

	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		if fail {
			return execErr
		}
		return nil
	},
		WithOperation[testMessage]("test.operation"),
		WithMessageFields(func(testMessage) map[string]any {
			return map[string]any{"directory": "posts"}
		}),
		WithObserver(func(_ context.Context, _ testMessage, report Report) {
			reports = append(reports, report)
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	fail = true
	if err := h.Execute(context.Background(), testMessage{}); !errors.Is(err, execErr) {
		t.Fatalf("expected wrapped exec error, got %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("expected two reports, got %d", len(reports))
	}
	if reports[0].Outcome != OutcomeSucceeded || reports[1].Outcome != OutcomeFailed {
		t.Fatalf("unexpected outcomes %s, %s", reports[0].Outcome, reports[1].Outcome)
	}
	first := reports[0]
	if first.Command != "press.test.message" || first.Operation != "test.operation" {
		t.Fatalf("unexpected report identity %+v", first)
	}
	if first.Fields["directory"] != "posts" || first.Fields["operation"] != "test.operation" {
		t.Fatalf("expected message fields merged, got %#v", first.Fields)
	}
}

func TestHandlerWrappedContextErrorIsCategorised(t *testing.T) {
	var outcome Outcome
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return fmt.Errorf("ingest aborted: %w", context.Canceled)
	}, WithObserver(func(_ context.Context, _ testMessage, report Report) {
		outcome = report.Outcome
	}))

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if outcome != OutcomeInterrupted {
		t.Fatalf("expected interrupted outcome, got %s", outcome)
	}
}

func TestHandlerCategorisesErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category goerrors.Category
	}{
		{"failure", errors.New("boom"), goerrors.CategoryCommand},
		{"canceled", context.Canceled, goerrors.CategoryCommand},
		{"deadline", fmt.Errorf("slow: %w", context.DeadlineExceeded), goerrors.CategoryCommand},
		{"already categorised", goerrors.Wrap(errors.New("missing"), goerrors.CategoryNotFound, "article missing"), goerrors.CategoryNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler[testMessage](func(context.Context, testMessage) error { return tc.err })
			err := h.Execute(context.Background(), testMessage{})
			if !goerrors.IsCategory(err, tc.category) {
				t.Fatalf("expected category %v, got %v", tc.category, err)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected cause to be preserved, got %v", err)
			}
		})
	}
}
