package cli

import (
	"context"

	"github.com/me/minify/internal/nav"
	"github.com/me/minify/pkg/model"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const errNotAdmin displayError = "The admin dashboard is only available to administrators"

func newAdminCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Show system analytics",
		Long:  "Show system totals, activity by timeframe, popular URLs and recent users.",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			if !a.auth.IsAdmin() {
				a.nav.Navigate(nav.Home)
				return errNotAdmin
			}

			var (
				stats   *model.OverviewStats
				popular []model.PopularURL
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				stats, err = a.client.Analytics.Overview(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				popular, err = a.client.Analytics.Popular(gctx, limit)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			renderAdmin(cmd.OutOrStdout(), stats, popular)
			return nil
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", model.DefaultPopularLimit, "Number of popular URLs to show")
	return cmd
}

func newTimeframeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "timeframe <period>",
		Short:     "Show activity for one period (hour, day, month, year)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"hour", "day", "month", "year"},
		RunE: a.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			period, err := model.ParsePeriod(args[0])
			if err != nil {
				// Unknown periods go to the server as typed; it owns the error text.
				period = model.Period(args[0])
			}
			stats, err := a.client.Analytics.Timeframe(ctx, period)
			if err != nil {
				return err
			}
			renderTimeframe(cmd.OutOrStdout(), stats)
			return nil
		}),
	}
}
