package models

import "github.com/shopspring/decimal"

// SavingsGoal represents a savings goal with its accumulated amount
type SavingsGoal struct {
	ID            int64               `json:"id"`
	UserID        int64               `json:"user_id"`
	Goal          string              `json:"goal"`
	CurrentAmount decimal.Decimal     `json:"current_amount"`
	TargetAmount  decimal.NullDecimal `json:"target_amount"`
}
