package fixtures

import (
	command "github.com/goliatone/go-command"
)

// RecordingRegistry captures command handlers passed to RegisterCommand.
type RecordingRegistry struct {
	Handlers []any
}

// NewRecordingRegistry constructs an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{
		Handlers: make([]any, 0),
	}
}

// RegisterCommand records the handler.
func (r *RecordingRegistry) RegisterCommand(handler any) error {
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration captures a single cron wiring invocation.
type CronRegistration struct {
	Config  command.HandlerConfig
	Handler any
}

// CronRecorder records calls made through its Registrar.
type CronRecorder struct {
	Registrations []CronRegistration
	err           error
}

// NewCronRecorder constructs a cron recorder.
func NewCronRecorder() *CronRecorder {
	return &CronRecorder{
		Registrations: make([]CronRegistration, 0),
	}
}

// Fail configures the recorder to return err on registration.
func (c *CronRecorder) Fail(err error) {
	c.err = err
}

// Registrar returns a cron registrar function that records invocations.
func (c *CronRecorder) Registrar() func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.err != nil {
			return c.err
		}
		c.Registrations = append(c.Registrations, CronRegistration{
			Config:  cfg,
			Handler: handler,
		})
		return nil
	}
}

// Run invokes the job recorded at index i when it is a func() error.
func (c *CronRecorder) Run(i int) error {
	if i < 0 || i >= len(c.Registrations) {
		return nil
	}
	if fn, ok := c.Registrations[i].Handler.(func() error); ok {
		return fn()
	}
	return nil
}
