package main

import (
	"fmt"
	"os"

	"github.com/budgetiq/budgetiq/internal/common"
	"github.com/budgetiq/budgetiq/internal/ofx"
	"github.com/budgetiq/budgetiq/internal/records"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import a bank statement as income and expense entries",
		Long: `Import an OFX/QFX bank statement.

Credits become income entries and debits become expense entries, created
through your BudgetIQ account one by one. Entries that fail validation are
skipped and reported at the end.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "parse and report without creating anything")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = file.Close() }()

	entries, err := ofx.NewParser().Parse(file)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("statement contains no transactions")
		return nil
	}

	if dryRun {
		for _, entry := range entries {
			name := entry.Draft.Source
			if name == "" {
				name = entry.Draft.Description
			}
			fmt.Printf("%-8s %10.2f  %-14s %s\n",
				entry.Variant.Name, entry.Draft.Amount, entry.Draft.Category, name)
		}
		fmt.Printf("\n%d entries would be imported\n", len(entries))
		return nil
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	if err := app.requireAuth(); err != nil {
		return err
	}

	stores := map[string]*records.Store{
		records.Income.Name:  records.NewStore(app.client, records.Income),
		records.Expense.Name: records.NewStore(app.client, records.Expense),
	}

	bar := progressbar.Default(int64(len(entries)), "importing")
	var created, skipped int

	for _, entry := range entries {
		if _, err := stores[entry.Variant.Name].Create(cmd.Context(), entry.Draft); err != nil {
			skipped++
			common.LogDebug("Skipped statement entry", common.Fields{
				"variant": entry.Variant.Name,
				"amount":  entry.Draft.Amount,
				"error":   err.Error(),
			})
		} else {
			created++
		}
		_ = bar.Add(1)

		if cmd.Context().Err() != nil {
			return cmd.Context().Err()
		}
	}

	if skipped > 0 {
		app.bus.Info(fmt.Sprintf("Imported %d entries, skipped %d", created, skipped))
	} else {
		app.bus.Success(fmt.Sprintf("Imported %d entries", created))
	}
	return nil
}
