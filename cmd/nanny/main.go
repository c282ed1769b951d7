package main

import (
	"context"

	"go.uber.org/fx"

	"botnanny/internal/modules/config"
	"botnanny/internal/modules/health"
	"botnanny/internal/modules/threecommas"
	"botnanny/internal/notify"
	"botnanny/internal/runner"
	"botnanny/pkg/logger"
	"botnanny/pkg/tracing"
)

func main() {
	app := fx.New(
		fx.Provide(
			context.Background,
			// Notifier: если TELEGRAM_* нет — используем stdout
			func(cfg *config.Config) notify.Notifier {
				if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
					if tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID); err == nil {
						return tg
					}
				}
				return notify.NewStdout()
			},
		),
		config.Module(),
		threecommas.Module(),
		health.Module(),
		runner.Module(),
		fx.Invoke(
			func(lc fx.Lifecycle, cfg *config.Config) error {
				logger.SetServiceName("botnanny")
				tracing.SetServiceName("botnanny")
				if err := logger.Init(cfg.Debug); err != nil {
					return err
				}
				_, closer, err := tracing.InitTracer(tracing.Config{
					Enabled: cfg.Jaeger.Enabled,
					Host:    cfg.Jaeger.Host,
					Port:    cfg.Jaeger.Port,
				})
				if err != nil {
					return err
				}
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						closer()
						return nil
					},
				})
				return nil
			},
		),
	)
	app.Run()
}
