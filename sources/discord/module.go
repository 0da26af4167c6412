package discord

import (
	"context"

	"grokcord/sources/documents"
	"grokcord/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("discord",
	fx.Provide(
		NewBotConfig,
		NewDiplomatConfig,
		NewHandlerConfig,
		NewSession,
		NewMessenger,
		NewDiplomat,
		func(d *Diplomat) responder { return d },
		func(f *documents.Fetcher) fetcher { return f },
		func(e *documents.Extractor) extractor { return e },
		NewHandler,
		NewGateway,
	),

	fx.Invoke(func(lc fx.Lifecycle, gateway *Gateway, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := gateway.Start(); err != nil {
					log.E("Failed to open discord gateway", tracing.InnerError, err)
					return err
				}
				log.I("Discord gateway started")
				return nil
			},
			OnStop: func(ctx context.Context) error {
				if err := gateway.Stop(); err != nil {
					log.W("Failed to close discord gateway", tracing.InnerError, err)
				}
				log.I("Discord gateway stopped")
				return nil
			},
		})
	}),
)
