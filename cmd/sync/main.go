package main

import (
	"context"
	"log"

	"trade_recon/internal/modules/broker"
	"trade_recon/internal/modules/config"
	"trade_recon/internal/modules/ingest"
	"trade_recon/internal/modules/lifecycle"
	"trade_recon/internal/modules/matcher"
	"trade_recon/internal/modules/postgres"
	"trade_recon/internal/runner"
	"trade_recon/pkg/logger"
	"trade_recon/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("trade_recon")
	tracing.SetServiceName("trade_recon")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		broker.Module(),
		matcher.Module(),
		ingest.Module(),
		lifecycle.Module(),
		runner.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if cfg.Jaeger.Host == "" {
				return nil
			}
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
	)
	app.Run()
}
