package logging

import (
	"maps"

	"github.com/valarz/go-press/pkg/interfaces"
)

// WithFields returns logger carrying a copy of fields. Loggers without
// FieldsLogger support are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(interfaces.FieldsLogger); ok {
		return fl.WithFields(maps.Clone(fields))
	}
	return logger
}
