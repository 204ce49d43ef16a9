package commands

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"aichannel/pkg/config"
	"aichannel/pkg/logger"
)

// Module provides the text command registry with built-ins registered.
var Module = fx.Module("commands",
	fx.Provide(ProvideRegistry),
	fx.Invoke(registerBuiltins),
)

// ProvideRegistry creates the registry for the configured prefix.
func ProvideRegistry(cfg *config.Config) *Registry {
	return NewRegistry(cfg.Discord.CommandPrefix)
}

// registerBuiltins registers built-in commands on startup.
func registerBuiltins(registry *Registry, log *logger.Logger) error {
	if err := RegisterBuiltinCommands(registry); err != nil {
		log.Error("Failed to register builtin commands", zap.Error(err))
		return err
	}

	log.Info("Registered builtin commands",
		zap.String("prefix", registry.Prefix()),
		zap.Int("count", len(registry.List())))
	return nil
}
