package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides metrics registered on the default Prometheus registry.
var Module = fx.Module("metrics",
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(func() prometheus.Gatherer { return prometheus.DefaultGatherer }),
	fx.Provide(New),
)
