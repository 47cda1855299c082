package dto

// Summary aggregates a user's ledger totals in main units.
type Summary struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
}

// MonthlyTotal is one month's net ledger movement.
type MonthlyTotal struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
}

// CategoryTotal is a per-category ledger sum.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}
