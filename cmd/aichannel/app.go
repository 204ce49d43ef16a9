package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"aichannel/pkg/admin"
	"aichannel/pkg/bindings"
	"aichannel/pkg/commands"
	"aichannel/pkg/completion"
	"aichannel/pkg/config"
	"aichannel/pkg/discord"
	"aichannel/pkg/logger"
	"aichannel/pkg/metrics"
	"aichannel/pkg/router"
	"aichannel/pkg/status"
	"aichannel/pkg/version"
)

// appOptions assembles the bot. mode is logged on start.
func appOptions(path, mode string) []fx.Option {
	return []fx.Option{
		fx.Supply(config.Path(path)),

		// Core modules
		config.Module,
		logger.Module,
		metrics.Module,
		bindings.Module,
		completion.Module,
		commands.Module,

		// Bot modules
		router.Module,
		admin.Module,
		discord.Module,
		status.Module,

		fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Logger}
			l.UseLogLevel(zap.DebugLevel)
			return l
		}),

		fx.Invoke(func(lc fx.Lifecycle, log *logger.Logger, cfg *config.Config, c *completion.Client) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.Info("aichannel started",
						zap.String("mode", mode),
						zap.String("version", version.GetVersion()),
						zap.String("model", c.Model()),
						zap.String("store", cfg.Store.Backend))
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.Info("aichannel stopped")
					return nil
				},
			})
		}),
	}
}

// runForeground runs the bot until interrupted.
func runForeground(cmd *cobra.Command, args []string) error {
	app := fx.New(appOptions(configPath, "foreground")...)
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}

// runRun runs as a service when launched by a service manager, otherwise in
// the foreground.
func runRun(cmd *cobra.Command, args []string) error {
	if runningUnderServiceManager() {
		return RunService()
	}
	return runForeground(cmd, args)
}
