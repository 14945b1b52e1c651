package matcher

import (
	"trade_recon/internal/modules/matcher/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("matcher",
		fx.Provide(
			service.NewMatcher,
		),
	)
}
