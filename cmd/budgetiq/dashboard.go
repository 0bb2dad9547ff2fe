package main

import (
	"fmt"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/budgetiq/budgetiq/internal/common"
	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard summary and chart data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, _ := cmd.Flags().GetString("period")
			offline, _ := cmd.Flags().GetBool("offline")

			if period != "weekly" && period != "monthly" {
				return fmt.Errorf("invalid period %q, expected weekly or monthly", period)
			}

			app, err := newApp()
			if err != nil {
				return err
			}

			if offline {
				return dashboardOffline(cmd)
			}

			if err := app.requireAuth(); err != nil {
				return err
			}

			var summary model.Summary
			var chart []model.ChartPoint

			// Summary and chart data load concurrently, like the web
			// dashboard's parallel fetch.
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return app.client.Get(ctx, "/api/dashboard/summary", &summary)
			})
			g.Go(func() error {
				path := "/api/dashboard/chart-data?period=" + url.QueryEscape(period)
				return app.client.Get(ctx, path, &chart)
			})
			if err := g.Wait(); err != nil {
				return app.fail(err)
			}

			printSummary(summary)
			printChart(chart)

			if snap, snapErr := openSnapshotStore(cmd.Context()); snapErr == nil {
				defer func() { _ = snap.Close() }()
				if err := snap.SaveSummary(cmd.Context(), summary, time.Now()); err != nil {
					common.LogError(err, "Failed to update offline snapshot", nil)
				}
			}

			return nil
		},
	}

	cmd.Flags().String("period", "monthly", "chart period (weekly, monthly)")
	cmd.Flags().Bool("offline", false, "show the last fetched summary without contacting the server")

	return cmd
}

func dashboardOffline(cmd *cobra.Command) error {
	snap, err := openSnapshotStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = snap.Close() }()

	summary, fetchedAt, err := snap.Summary(cmd.Context())
	if err != nil {
		return err
	}

	printSummary(summary)
	fmt.Printf("\n(snapshot from %s)\n", fetchedAt.Format("02 Jan 2006 15:04"))
	return nil
}

func printSummary(summary model.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total income\t%s\n", formatAmount(summary.TotalIncome))
	fmt.Fprintf(w, "total expenses\t%s\n", formatAmount(summary.TotalExpense))
	fmt.Fprintf(w, "balance\t%s\n", formatAmount(summary.CurrentBalance))
	_ = w.Flush()
}

func printChart(points []model.ChartPoint) {
	if len(points) == 0 {
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tINCOME\tEXPENSE\tNET WORTH")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.Label, formatAmount(p.Income), formatAmount(p.Expense), formatAmount(p.NetWorth))
	}
	_ = w.Flush()
}
