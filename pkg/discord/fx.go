package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/fx"

	"aichannel/pkg/admin"
	"aichannel/pkg/commands"
	"aichannel/pkg/config"
	"aichannel/pkg/logger"
	"aichannel/pkg/router"
	"aichannel/pkg/status"
)

// Module provides the Discord session, sender and bot.
var Module = fx.Module("discord",
	fx.Provide(
		NewSession,
		fx.Annotate(NewSender, fx.As(new(router.Sender))),
		ProvideBot,
		func(b *Bot) status.Probe { return b },
	),
	fx.Invoke(registerLifecycle),
)

// ProvideBot wires the bot to the router and admin handler.
func ProvideBot(
	log *logger.Logger,
	cfg *config.Config,
	session *discordgo.Session,
	r *router.Router,
	h *admin.Handler,
	registry *commands.Registry,
) *Bot {
	return NewBot(log, cfg.Discord, session, r, h, registry)
}

func registerLifecycle(lc fx.Lifecycle, b *Bot) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return b.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return b.Stop(ctx)
		},
	})
}
