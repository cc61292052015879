package markdowncmd

import (
	"errors"
	"testing"

	command "github.com/goliatone/go-command"

	"github.com/valarz/go-press/internal/commands"
	"github.com/valarz/go-press/internal/commands/fixtures"
	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

func TestRegisterMarkdownCommandsHandlerOptionsApplied(t *testing.T) {
	service := &stubMarkdownService{}
	ingestApplied := false
	renderApplied := false

	_, err := RegisterMarkdownCommands(nil, service, nil, enabled(),
		WithIngestHandlerOptions(func(h *commands.Handler[IngestDirectoryCommand]) {
			ingestApplied = true
		}),
		WithRenderHandlerOptions(func(h *commands.Handler[RenderDocumentCommand]) {
			renderApplied = true
		}),
	)
	if err != nil {
		t.Fatalf("register markdown commands: %v", err)
	}
	if !ingestApplied || !renderApplied {
		t.Fatalf("expected handler options applied, ingest=%v render=%v", ingestApplied, renderApplied)
	}
}

func TestRegisterMarkdownCommandsRegistersHandlers(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	service := &stubMarkdownService{}

	set, err := RegisterMarkdownCommands(reg, service, nil, enabled())
	if err != nil {
		t.Fatalf("register markdown commands: %v", err)
	}
	if set == nil || set.Ingest == nil || set.Render == nil {
		t.Fatalf("expected ingest and render handlers, got %#v", set)
	}
	if len(reg.Handlers) != 2 {
		t.Fatalf("expected two handlers registered, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Ingest {
		t.Fatalf("expected ingest handler registered first, got %#v", reg.Handlers[0])
	}
	if reg.Handlers[1] != set.Render {
		t.Fatalf("expected render handler registered second, got %#v", reg.Handlers[1])
	}
}

func TestRegisterMarkdownCommandsNilServiceError(t *testing.T) {
	if _, err := RegisterMarkdownCommands(nil, nil, nil, FeatureGates{}); err == nil {
		t.Fatal("expected error when service nil")
	}
}

func TestRegisterMarkdownCronRegistersHandler(t *testing.T) {
	service := &stubMarkdownService{ingestResult: &interfaces.IngestResult{}}
	handler := NewIngestDirectoryHandler(service, logging.NoOp(), enabled())
	recorder := fixtures.NewCronRecorder()

	cfg := command.HandlerConfig{Expression: "@every 5m"}
	msg := IngestDirectoryCommand{Directory: "posts"}

	if err := RegisterMarkdownCron(recorder.Registrar(), handler, cfg, msg); err != nil {
		t.Fatalf("register markdown cron: %v", err)
	}
	if len(recorder.Registrations) != 1 {
		t.Fatalf("expected one cron registration, got %d", len(recorder.Registrations))
	}
	if recorder.Registrations[0].Config.Expression != cfg.Expression {
		t.Fatalf("expected cron expression %q, got %q", cfg.Expression, recorder.Registrations[0].Config.Expression)
	}
	if err := recorder.Run(0); err != nil {
		t.Fatalf("executing cron handler: %v", err)
	}
	if len(service.ingestCalls) != 1 {
		t.Fatalf("expected ingest call executed, got %d", len(service.ingestCalls))
	}
}

func TestRegisterMarkdownCronPropagatesRegistrarError(t *testing.T) {
	handler := NewIngestDirectoryHandler(&stubMarkdownService{}, logging.NoOp(), enabled())
	recorder := fixtures.NewCronRecorder()
	boom := errors.New("scheduler offline")
	recorder.Fail(boom)

	err := RegisterMarkdownCron(recorder.Registrar(), handler, command.HandlerConfig{}, IngestDirectoryCommand{Directory: "posts"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected registrar error, got %v", err)
	}
}

func TestRegisterMarkdownCronNoOpWhenHandlerNil(t *testing.T) {
	recorder := fixtures.NewCronRecorder()
	if err := RegisterMarkdownCron(recorder.Registrar(), nil, command.HandlerConfig{}, IngestDirectoryCommand{Directory: "posts"}); err != nil {
		t.Fatalf("expected nil error when handler nil, got %v", err)
	}
	if len(recorder.Registrations) != 0 {
		t.Fatalf("expected no registrations when handler nil, got %d", len(recorder.Registrations))
	}
}
