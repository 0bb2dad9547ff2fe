package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/budgetiq/budgetiq/internal/common"
	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/spf13/cobra"
)

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show server notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			// Best-effort fetch: an empty list renders fine, a hard failure
			// still surfaces.
			var notes []model.ServerNotification
			if err := app.client.Get(cmd.Context(), "/api/notifications", &notes); err != nil {
				common.LogDebug("Failed to fetch notifications", common.Fields{"error": err.Error()})
				return app.fail(err)
			}

			if len(notes) == 0 {
				fmt.Println("no notifications")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, n := range notes {
				marker := " "
				if !n.IsRead {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", marker, n.CreatedAt.Format("02 Jan 15:04"), n.Message)
			}
			_ = w.Flush()
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "read-all",
		Short: "Mark all notifications as read",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			if err := app.client.Put(cmd.Context(), "/api/notifications/read-all", nil, nil); err != nil {
				return app.fail(err)
			}

			app.bus.Success("All notifications marked read")
			return nil
		},
	})

	return cmd
}
