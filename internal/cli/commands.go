package cli

import (
	"fmt"
	"io"
	"time"

	"ssf-backend/internal/analytics"
	"ssf-backend/internal/domain"

	"github.com/spf13/cobra"
)

// NewSweepCommand runs one expiry sweep.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired listings once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, cleanup, err := openContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			removed, err := rt.Sweeper.SweepOnce(cmd.Context())
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), rootOpts, map[string]int{"removed": removed}, func(w io.Writer) {
				fmt.Fprintf(w, "removed %d expired listing(s)\n", removed)
			})
		},
	}
}

// NewListingsCommand prints listings.
func NewListingsCommand(rootOpts *RootOptions) *cobra.Command {
	var all bool
	var category, query string

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "List listings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, cleanup, err := openContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			items := domain.FilterListings(rt.Replica.Listings(), domain.ListingFilter{
				ActiveOnly: !all,
				Category:   category,
				Query:      query,
			})
			return output(cmd.OutOrStdout(), rootOpts, items, func(w io.Writer) {
				for _, l := range items {
					fmt.Fprintf(w, "%s\t%-9s\t%s\t%g %s\t%s\texpires %s\n",
						l.ID, l.Status, l.Title, l.Quantity, l.Unit, l.Location, l.ExpiresAt.Format(time.RFC3339))
				}
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include terminal listings")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVarP(&query, "query", "q", "", "text search")
	return cmd
}

// NewAnalyticsCommand prints impact totals for collected listings.
func NewAnalyticsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show impact of collected surplus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, cfg, cleanup, err := openContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			res := analytics.Compute(rt.Replica.Listings(), rt.Replica.Settings().Impact, cfg.Location())
			return output(cmd.OutOrStdout(), rootOpts, res, func(w io.Writer) {
				fmt.Fprintf(w, "collected: %.2f kg, %d servings\n", res.TotalKg, res.TotalServings)
				fmt.Fprintf(w, "co2 avoided: %.2f kg, water saved: %.0f l\n", res.CO2, res.Water)
				for _, d := range res.Series {
					fmt.Fprintf(w, "%s\t%.2f kg\t%d servings\n", d.Date, d.Kg, d.Servings)
				}
			})
		},
	}
}

// NewEventsCommand groups event subcommands.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect events",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reminders",
		Short: "Show ended events with unlogged surplus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, cleanup, err := openContext(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			pending := domain.PendingReminders(rt.Replica.Events(), time.Now())
			return output(cmd.OutOrStdout(), rootOpts, pending, func(w io.Writer) {
				if len(pending) == 0 {
					fmt.Fprintln(w, "no pending reminders")
					return
				}
				for _, e := range pending {
					fmt.Fprintf(w, "%s\t%s\t%s\tended %s\n", e.ID, e.Name, e.Location, e.EndAt.Format(time.RFC3339))
				}
			})
		},
	})
	return cmd
}
