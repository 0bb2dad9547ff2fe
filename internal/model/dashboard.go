package model

// Summary is the dashboard aggregate computed by the backend.
type Summary struct {
	TotalIncome    float64 `json:"total_income"`
	TotalExpense   float64 `json:"total_expense"`
	CurrentBalance float64 `json:"current_balance"`
	IncomeCount    int     `json:"income_count,omitempty"`
	ExpenseCount   int     `json:"expense_count,omitempty"`
}

// ChartPoint is one bucket of the dashboard chart series.
type ChartPoint struct {
	Label    string  `json:"label"`
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
	NetWorth float64 `json:"net_worth"`
}

// ServerNotification is a persistent notification stored by the backend,
// distinct from the in-memory toast notifications in the toast package.
type ServerNotification struct {
	CreatedAt Time     `json:"created_at"`
	ID        RecordID `json:"id"`
	Message   string   `json:"message"`
	Type      string   `json:"type"`
	IsRead    bool     `json:"is_read"`
}

// Insight is a single AI-generated observation about spending patterns.
type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
