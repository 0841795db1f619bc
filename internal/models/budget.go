package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents a planned monthly amount for a category.
// Month is always the first day of the month.
type Budget struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Month    time.Time       `json:"month"`
}
