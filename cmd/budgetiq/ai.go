package main

import (
	"fmt"

	"github.com/budgetiq/budgetiq/internal/common"
	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/budgetiq/budgetiq/internal/tui"
	"github.com/spf13/cobra"
)

func aiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "AI-powered insights and chat",
	}

	cmd.AddCommand(aiChatCmd())
	cmd.AddCommand(aiInsightsCmd())

	return cmd
}

func aiChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the AI advisor",
		Long: `Chat with the AI advisor about your finances.

Runs an interactive panel by default; use -m for a one-shot question.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			advisor := &tui.APIAdvisor{Client: app.client}

			if message, _ := cmd.Flags().GetString("message"); message != "" {
				reply, err := advisor.Chat(cmd.Context(), message)
				if err != nil {
					return app.fail(err)
				}
				fmt.Println(reply)
				return nil
			}

			return tui.Run(cmd.Context(), advisor)
		},
	}

	cmd.Flags().StringP("message", "m", "", "send a single message instead of starting the panel")

	return cmd
}

func aiInsightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show AI-generated spending insights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			// Insights are decorative; a failed fetch degrades to nothing
			// rather than failing the command.
			var insights []model.Insight
			if err := app.client.Get(cmd.Context(), "/api/ai/insights", &insights); err != nil {
				common.LogDebug("Failed to fetch insights", common.Fields{"error": err.Error()})
				fmt.Println("no insights available right now")
				return nil
			}

			if len(insights) == 0 {
				fmt.Println("no insights yet - add some records first")
				return nil
			}

			for _, insight := range insights {
				fmt.Printf("[%s] %s\n", insight.Type, insight.Message)
			}
			return nil
		},
	}
}
