package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents a single expense record
type Expense struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date"`
}
