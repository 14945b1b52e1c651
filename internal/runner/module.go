package runner

import (
	"context"

	"trade_recon/internal/modules/broker/service"
	"trade_recon/internal/modules/config"
	"trade_recon/internal/notify"
	"trade_recon/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(client *service.Client) FeedFactory {
				return func(acc config.Account) Feed {
					return client.WithToken(acc.Token)
				}
			},
			func(cfg *config.Config) notify.Notifier {
				if cfg.Telegram.Token == "" {
					return notify.NewStdout()
				}
				tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
				if err != nil {
					logger.Error("telegram notifier init: %v, falling back to stdout", err)
					return notify.NewStdout()
				}
				return tg
			},
			New, // *Runner
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			r *Runner,
			shutdowner fx.Shutdowner,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						r.Run(ctx)
						_ = shutdowner.Shutdown()
					}()
					return nil
				},
			})
		}),
	)
}
