package runner

import (
	"context"

	"go.uber.org/fx"

	"botnanny/internal/modules/threecommas/service"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewSnapshotStore,
			NewReporter,
			func(c *service.Client) API { return c },
			New,
		),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(startCtx context.Context) error {
					if err := r.Probe(startCtx); err != nil {
						return err
					}
					r.Start(ctx)
					return nil
				},
				OnStop: func(context.Context) error {
					r.Stop()
					return nil
				},
			})
		}),
	)
}
