package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income represents a single income record
type Income struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"user_id"`
	Source string          `json:"source"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}
