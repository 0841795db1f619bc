// Package money formats decimal amounts for user-facing text.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders an amount with digit grouping, e.g. "$1,234.50" or "-$20.00".
func Format(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	if f < 0 {
		return "-$" + printer.Sprintf("%.2f", -f)
	}
	return "$" + printer.Sprintf("%.2f", f)
}

// Plain renders an amount without grouping, e.g. "$1234.50".
func Plain(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Number renders a float with one decimal place, e.g. "2.5".
func Number(f float64) string {
	return printer.Sprintf("%.1f", f)
}
