package models

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// AggregationResult is what the ledger returns for a period query. The report
// layer only formats these numbers, it never re-derives them.
type AggregationResult struct {
	TotalIncome         float64         `json:"total_income"`
	TotalExpense        float64         `json:"total_expense"`
	TransactionCount    int             `json:"transaction_count"`
	PerCategory         []CategoryTotal `json:"per_category"`
	TopCategory         *CategoryTotal  `json:"top_category,omitempty"`
	LargestTransaction  float64         `json:"largest_transaction"`
	SavePercentage      float64         `json:"save_percentage"`
	DailyAverageExpense float64         `json:"daily_average_expense"`
}

// ReportText is a rendered narrative. UsedFallback marks that the external
// generator was unavailable and the deterministic template was used instead.
type ReportText struct {
	Body         string `json:"body"`
	UsedFallback bool   `json:"used_fallback"`
}
