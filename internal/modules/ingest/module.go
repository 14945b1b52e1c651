package ingest

import (
	"trade_recon/internal/modules/config"
	"trade_recon/internal/modules/ingest/service"
	"trade_recon/internal/modules/ingest/service/pg"
	"trade_recon/pkg/db"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("ingest",
		fx.Provide(
			func(manager *db.PgTxManager) service.TradeStore {
				return pg.NewTrades(manager)
			},
			func(store service.TradeStore, cfg *config.Config) *service.Ingest {
				return service.NewIngest(store, cfg.DeleteChunkSize)
			},
		),
	)
}
