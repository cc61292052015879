package commands

import (
	"strings"

	"github.com/valarz/go-press/internal/logging"
	"github.com/valarz/go-press/pkg/interfaces"
)

const commandModuleRoot = "press.commands"

// CommandLogger returns a module-scoped logger for command handlers, tagged
// with the component and command module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
