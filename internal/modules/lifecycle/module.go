package lifecycle

import (
	"trade_recon/internal/modules/config"
	ingest "trade_recon/internal/modules/ingest/service"
	"trade_recon/internal/modules/lifecycle/service"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("lifecycle",
		fx.Provide(
			func(cfg *config.Config) *service.Tracker {
				return service.NewTracker(service.Params{
					GroupWindow:   cfg.GroupWindow,
					RecoveringPct: decimal.NewFromFloat(cfg.RecoveringPct),
					FreePct:       decimal.NewFromFloat(cfg.FreePct),
				})
			},
			func(store ingest.TradeStore, tracker *service.Tracker) *service.Lifecycle {
				return service.NewLifecycle(store, tracker)
			},
		),
	)
}
