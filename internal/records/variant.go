package records

import (
	"fmt"
	"slices"

	"github.com/budgetiq/budgetiq/internal/api"
	"github.com/budgetiq/budgetiq/internal/model"
)

// Variant configures a record store for one record type. Income and expense
// stores are structurally identical; only the endpoint, the category
// allow-list, and the required fields differ.
type Variant struct {
	Name          string
	Path          string
	Categories    []string
	RequireSource bool
}

// Income is the income record variant.
var Income = Variant{
	Name: "income",
	Path: "/api/income",
	Categories: []string{
		"Salary", "Freelance", "Investments", "Business", "Gifts", "Other",
	},
	RequireSource: true,
}

// Expense is the expense record variant.
var Expense = Variant{
	Name: "expense",
	Path: "/api/expenses",
	Categories: []string{
		"Food", "Transport", "Shopping", "Entertainment", "Bills",
		"Health", "Education", "Rent", "Other",
	},
}

// ValidateDraft checks a draft client-side. A failing draft never reaches
// the network.
func (v Variant) ValidateDraft(draft model.RecordDraft) error {
	if draft.Amount <= 0 {
		return api.NewValidationError("amount must be greater than zero")
	}
	if draft.Category == "" {
		return api.NewValidationError("category is required")
	}
	if !slices.Contains(v.Categories, draft.Category) {
		return api.NewValidationError(fmt.Sprintf("unknown %s category: %s", v.Name, draft.Category))
	}
	if v.RequireSource && draft.Source == "" {
		return api.NewValidationError("source is required")
	}
	if draft.Date.IsZero() {
		return api.NewValidationError("date is required")
	}
	return nil
}
