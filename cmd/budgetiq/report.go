package main

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <pdf|excel>",
		Short: "Download a report rendered by the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := args[0]
			if format != "pdf" && format != "excel" {
				return fmt.Errorf("invalid report format %q, expected pdf or excel", format)
			}

			period, _ := cmd.Flags().GetString("period")
			if period != "weekly" && period != "monthly" {
				return fmt.Errorf("invalid period %q, expected weekly or monthly", period)
			}

			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				ext := "pdf"
				if format == "excel" {
					ext = "xlsx"
				}
				outPath = fmt.Sprintf("budgetiq_%s_report.%s", period, ext)
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = out.Close() }()

			bar := progressbar.DefaultBytes(-1, "downloading "+format+" report")
			defer func() { _ = bar.Finish() }()

			path := fmt.Sprintf("/api/reports/%s?period=%s", format, url.QueryEscape(period))
			n, err := app.client.Download(cmd.Context(), path, io.MultiWriter(out, bar))
			if err != nil {
				_ = os.Remove(outPath)
				return app.fail(err)
			}

			app.bus.Success(fmt.Sprintf("Report saved to %s (%d bytes)", outPath, n))
			return nil
		},
	}

	cmd.Flags().String("period", "monthly", "report period (weekly, monthly)")
	cmd.Flags().String("out", "", "output file (default budgetiq_<period>_report.<ext>)")

	return cmd
}
