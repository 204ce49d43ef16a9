package bindings

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"aichannel/pkg/config"
	"aichannel/pkg/logger"
)

// Module is the fx module for the channel binding store.
var Module = fx.Module("bindings",
	fx.Provide(ProvideStore),
)

// ProvideStore creates the configured store and closes it on shutdown.
func ProvideStore(lc fx.Lifecycle, log *logger.Logger, cfg *config.Config) (Store, error) {
	store, err := New(context.Background(), log, cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logStoreReady(ctx, log, cfg.Store.Backend, store)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// logStoreReady logs the number of bound guilds and returns it, or -1 when
// listing fails.
func logStoreReady(ctx context.Context, log *logger.Logger, backend string, store Store) int {
	all, err := store.All(ctx)
	if err != nil {
		log.Warn("Binding store initialized, listing bindings failed",
			zap.String("backend", backend),
			zap.Error(err))
		return -1
	}
	log.Info("Binding store initialized",
		zap.String("backend", backend),
		zap.Int("guilds", len(all)))
	return len(all)
}
