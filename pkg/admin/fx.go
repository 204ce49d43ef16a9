package admin

import "go.uber.org/fx"

// Module provides the admin command handler.
var Module = fx.Module("admin",
	fx.Provide(NewHandler),
)
