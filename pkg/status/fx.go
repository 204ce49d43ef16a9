package status

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"aichannel/pkg/config"
	"aichannel/pkg/logger"
)

// Module provides the status server and registers it with the lifecycle.
var Module = fx.Module("status",
	fx.Provide(ProvideServer),
	fx.Invoke(registerLifecycle),
)

// Params are the server dependencies. Probe is optional.
type Params struct {
	fx.In

	Config   *config.Config
	Logger   *logger.Logger
	Gatherer prometheus.Gatherer
	Probe    Probe `optional:"true"`
}

// ProvideServer creates the server from configuration.
func ProvideServer(p Params) *Server {
	return NewServer(p.Logger, p.Config.Status.Host, p.Config.Status.Port, p.Gatherer, p.Probe)
}

func registerLifecycle(lc fx.Lifecycle, s *Server, cfg *config.Config, log *logger.Logger) {
	if cfg.Status.Port == 0 {
		log.Info("Status server disabled in config")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return s.Stop(shutdownCtx)
		},
	})
}
