package completion

import (
	"go.uber.org/fx"
)

// Module provides the completion client.
var Module = fx.Module("completion",
	fx.Provide(NewClient),
)
