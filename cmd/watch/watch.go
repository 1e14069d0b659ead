package watch

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/analytics"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/observability"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

// Command creates the watch command, which reloads statistics periodically
// and serves Prometheus metrics.
func Command(rt *runtime.Context) *cobra.Command {
	var (
		interval time.Duration
		userID   int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload statistics periodically and serve metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = rt.Settings.Watch.Interval
			}

			loader, err := rt.Loader()
			if err != nil {
				return err
			}
			m, err := rt.Metrics()
			if err != nil {
				return err
			}

			log := logger.Global().Module("watch")
			loader.OnApply(func(s *analytics.Snapshot) {
				log.Info("statistics updated",
					logger.Uint64("generation", s.Generation),
					logger.Int("containers", s.ContainerStats.Total),
					logger.Int("personal", s.Personal.Total),
					logger.Int("company", s.Company.Total),
					logger.Int("public", s.Public.Total))
			})

			g, ctx := errgroup.WithContext(cmd.Context())
			if listen := rt.Settings.Metrics.Listen; listen != "" {
				endpoint := observability.NewEndpoint(listen, m)
				g.Go(func() error { return endpoint.Run(ctx) })
			}
			g.Go(func() error {
				return loader.Watch(ctx, interval, rt.ResolveUserID(userID, cmd.Flags().Changed("user")))
			})

			log.Info("watching", logger.Duration("interval", interval))
			return g.Wait()
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Reload interval (default: watch.interval)")
	cmd.Flags().IntVarP(&userID, "user", "u", 0, "Current user id, overrides user.id (0 for none)")

	return cmd
}
