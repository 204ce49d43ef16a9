package router

import (
	"go.uber.org/fx"

	"aichannel/pkg/commands"
	"aichannel/pkg/completion"
)

// Module provides the message router. A Sender must be provided elsewhere.
var Module = fx.Module("router",
	fx.Provide(
		func(c *completion.Client) Completer { return c },
		func(r *commands.Registry) CommandProcessor { return r },
		New,
	),
)
