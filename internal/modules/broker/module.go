package broker

import (
	"trade_recon/internal/modules/broker/service"
	"trade_recon/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("broker",
		fx.Provide(
			func(cfg *config.Config) *service.Client {
				return service.NewClient(cfg.Broker.BaseURL, cfg.Broker.Token)
			},
		),
	)
}
