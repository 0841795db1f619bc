package models

import "github.com/shopspring/decimal"

// SavingsProgress represents a savings goal with computed progress
type SavingsProgress struct {
	ID                 int64           `json:"id"`
	Goal               string          `json:"goal"`
	CurrentAmount      decimal.Decimal `json:"current_amount"`
	TargetAmount       decimal.Decimal `json:"target_amount"`
	ProgressPercentage float64         `json:"progress_percentage"`
}

// CategoryBudget represents budget vs actual spending for one category
type CategoryBudget struct {
	Category  string          `json:"category"`
	Budgeted  decimal.Decimal `json:"budgeted"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ScoreComponent is one itemized part of the financial health score
type ScoreComponent struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Unbounded bool    `json:"unbounded,omitempty"` // ratio with a zero denominator
	Points    int     `json:"points"`
	MaxPoints int     `json:"max_points"`
	Detail    string  `json:"detail"`
}

// FinancialSnapshot holds all metrics derived from the user's current records.
// It is recomputed on every request and never persisted.
type FinancialSnapshot struct {
	Month                    string            `json:"month"` // Format: YYYY-MM
	TotalIncome              decimal.Decimal   `json:"all_total_income"`
	TotalExpenses            decimal.Decimal   `json:"all_total_expenses"`
	CashFlow                 decimal.Decimal   `json:"cash_flow"`
	TotalAssets              decimal.Decimal   `json:"total_assets"`
	TotalLiabilities         decimal.Decimal   `json:"total_liabilities"`
	NetWorth                 decimal.Decimal   `json:"net_worth"`
	SavingsGoals             []SavingsProgress `json:"savings_goals"`
	Debts                    []Debt            `json:"debt_items"`
	BudgetVsActual           []CategoryBudget  `json:"budget_vs_actual"`
	AverageMonthlyExpenses   decimal.Decimal   `json:"average_monthly_expenses"`
	EmergencyFundTarget      decimal.Decimal   `json:"emergency_fund_target_3_months"`
	EmergencyFundCoverage    float64           `json:"emergency_fund_coverage"`
	HealthScore              int               `json:"financial_health_score"`
	ScoreComponents          []ScoreComponent  `json:"score_components"`
	ScoreDetails             []string          `json:"score_details"`
	OverBudgetCategories     []string          `json:"over_budget_categories"`
	TopSpendingCategories    []string          `json:"top_spending_categories"`
	TopSpendingCategoriesStr string            `json:"top_spending_categories_str"`
	HasData                  bool              `json:"has_data"`
}
