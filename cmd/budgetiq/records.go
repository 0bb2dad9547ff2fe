package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/budgetiq/budgetiq/internal/common"
	"github.com/budgetiq/budgetiq/internal/model"
	"github.com/budgetiq/budgetiq/internal/records"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func incomeCmd() *cobra.Command {
	return recordCmd(records.Income, "Manage income entries")
}

func expenseCmd() *cobra.Command {
	return recordCmd(records.Expense, "Manage expense entries")
}

// recordCmd builds the list/add/rm command tree for one record variant. The
// income and expense trees differ only in their variant configuration.
func recordCmd(variant records.Variant, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   variant.Name,
		Short: short,
	}

	cmd.AddCommand(recordListCmd(variant))
	cmd.AddCommand(recordAddCmd(variant))
	cmd.AddCommand(recordRemoveCmd(variant))

	return cmd
}

func recordListCmd(variant records.Variant) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s entries", variant.Name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			offline, _ := cmd.Flags().GetBool("offline")

			app, err := newApp()
			if err != nil {
				return err
			}

			if offline {
				return listOffline(cmd, variant)
			}

			if err := app.requireAuth(); err != nil {
				return err
			}

			store := records.NewStore(app.client, variant)
			if err := store.Reload(cmd.Context()); err != nil {
				return app.fail(err)
			}

			printRecords(variant, store.List(), store.TotalAmount())

			// Keep the offline snapshot current; failure to write it is not
			// worth failing the command over.
			if snap, snapErr := openSnapshotStore(cmd.Context()); snapErr == nil {
				defer func() { _ = snap.Close() }()
				if err := snap.ReplaceRecords(cmd.Context(), variant.Name, store.List()); err != nil {
					common.LogError(err, "Failed to update offline snapshot", common.Fields{"variant": variant.Name})
				}
			}

			return nil
		},
	}

	cmd.Flags().Bool("offline", false, "show the last fetched snapshot without contacting the server")

	return cmd
}

func listOffline(cmd *cobra.Command, variant records.Variant) error {
	snap, err := openSnapshotStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = snap.Close() }()

	recs, err := snap.Records(cmd.Context(), variant.Name)
	if err != nil {
		return err
	}

	var total float64
	for _, rec := range recs {
		total += rec.Amount
	}
	printRecords(variant, recs, total)
	return nil
}

func recordAddCmd(variant records.Variant) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add an %s entry", variant.Name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, _ := cmd.Flags().GetFloat64("amount")
			category, _ := cmd.Flags().GetString("category")
			dateStr, _ := cmd.Flags().GetString("date")

			date, err := parseDate(dateStr)
			if err != nil {
				return err
			}

			draft := model.RecordDraft{
				Amount:   amount,
				Category: category,
				Date:     date,
			}
			if variant.RequireSource {
				draft.Source, _ = cmd.Flags().GetString("source")
			} else {
				draft.Description, _ = cmd.Flags().GetString("description")
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			store := records.NewStore(app.client, variant)
			created, err := store.Create(cmd.Context(), draft)
			if err != nil {
				return app.fail(err)
			}

			app.bus.Success(fmt.Sprintf("%s added (id %s)",
				strings.Title(variant.Name), created.ID))
			return nil
		},
	}

	cmd.Flags().Float64("amount", 0, "amount (must be positive)")
	cmd.Flags().String("category", "", "category: "+strings.Join(variant.Categories, ", "))
	cmd.Flags().String("date", "", "date as YYYY-MM-DD (default today)")
	if variant.RequireSource {
		cmd.Flags().String("source", "", "where the income came from")
		_ = cmd.MarkFlagRequired("source")
	} else {
		cmd.Flags().String("description", "", "optional description")
	}
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func recordRemoveCmd(variant records.Variant) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: fmt.Sprintf("Delete an %s entry", variant.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			store := records.NewStore(app.client, variant)
			if err := store.Remove(cmd.Context(), model.RecordID(args[0])); err != nil {
				return app.fail(err)
			}

			app.bus.Success(fmt.Sprintf("%s %s deleted", strings.Title(variant.Name), args[0]))
			return nil
		},
	}
}

func printRecords(variant records.Variant, recs []model.Record, total float64) {
	if len(recs) == 0 {
		fmt.Printf("no %s entries yet\n", variant.Name)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if variant.RequireSource {
		fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tSOURCE\tAMOUNT")
		for _, rec := range recs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				rec.ID, formatDate(rec.Date.Time), rec.Category, rec.Source, formatAmount(rec.Amount))
		}
	} else {
		fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tDESCRIPTION\tAMOUNT")
		for _, rec := range recs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				rec.ID, formatDate(rec.Date.Time), rec.Category, rec.Description, formatAmount(rec.Amount))
		}
	}
	fmt.Fprintf(w, "\ttotal\t\t\t%s\n", formatAmount(total))
	_ = w.Flush()
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show balance computed from your records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.requireAuth(); err != nil {
				return err
			}

			income := records.NewStore(app.client, records.Income)
			expense := records.NewStore(app.client, records.Expense)

			// Both collections load concurrently, like the web client's
			// parallel fetch on the transactions page.
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return income.Reload(ctx) })
			g.Go(func() error { return expense.Reload(ctx) })
			if err := g.Wait(); err != nil {
				return app.fail(err)
			}

			totalIncome := income.TotalAmount()
			totalExpense := expense.TotalAmount()

			fmt.Printf("income:   %s\n", formatAmount(totalIncome))
			fmt.Printf("expenses: %s\n", formatAmount(totalExpense))
			fmt.Printf("balance:  %s\n", formatAmount(totalIncome-totalExpense))
			return nil
		},
	}
}
