package threecommas

import (
	"botnanny/internal/modules/config"
	"botnanny/internal/modules/threecommas/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("threecommas",
		fx.Provide(
			func(cfg *config.Config) (*service.Client, error) {
				return service.NewClient(service.Config{
					APIKey:         cfg.ThreeCommas.APIKey,
					APISecret:      cfg.ThreeCommas.APISecret,
					RequestTimeout: cfg.RequestTimeout(),
					MaxAttempts:    cfg.ThreeCommas.MaxAttempts,
					PaceInterval:   cfg.ThreeCommas.PaceInterval(),
				})
			},
		),
	)
}
