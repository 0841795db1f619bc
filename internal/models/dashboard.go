package models

import "github.com/shopspring/decimal"

// NamedAmount is a label with a summed amount (income source or expense category)
type NamedAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// DailyTotals represents income and expenses for a specific day
type DailyTotals struct {
	Date     string          `json:"date"` // Format: YYYY-MM-DD
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// MonthlySummary represents the dashboard figures for one month
type MonthlySummary struct {
	Month                string          `json:"selected_month"` // Format: YYYY-MM
	TotalIncome          decimal.Decimal `json:"total_income"`
	TotalExpenses        decimal.Decimal `json:"total_expenses"`
	TotalBudget          decimal.Decimal `json:"total_budget"`
	TotalSavings         decimal.Decimal `json:"total_savings"`
	NetBalance           decimal.Decimal `json:"net_balance"`
	LastMonthIncome      decimal.Decimal `json:"last_month_income"`
	LastMonthExpenses    decimal.Decimal `json:"last_month_expenses"`
	LastMonthNetBalance  decimal.Decimal `json:"last_month_net_balance"`
	TopIncomeSources     []NamedAmount   `json:"top_income_sources"`
	TopExpenseCategories []NamedAmount   `json:"top_expense_categories"`
	Daily                []DailyTotals   `json:"daily"`
	AvailableMonths      []string        `json:"available_months"`
}
