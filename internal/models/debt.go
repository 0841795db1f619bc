package models

import "github.com/shopspring/decimal"

// DueDateLayout is the layout of Debt.DueDate
const DueDateLayout = "2006-01-02"

// Debt represents a liability tracked by the user
type Debt struct {
	ID             int64               `json:"id"`
	UserID         int64               `json:"user_id"`
	Name           string              `json:"debt_name"`
	Type           string              `json:"debt_type"`
	CurrentBalance decimal.Decimal     `json:"current_balance"`
	DueDate        string              `json:"due_date,omitempty"` // Format: YYYY-MM-DD, empty if not set
	InterestRate   decimal.NullDecimal `json:"interest_rate"`
	Lender         string              `json:"lender,omitempty"`
	Notes          string              `json:"notes,omitempty"`
}
