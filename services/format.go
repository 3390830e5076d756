package services

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as dollars with thousands separators and
// exactly 2 decimal places (e.g., $1,234.50). Negative amounts render as
// -$12.00.
func FormatMoney(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-$" + humanize.FormatFloat("#,###.##", rounded.Abs().InexactFloat64())
	}
	return "$" + humanize.FormatFloat("#,###.##", rounded.InexactFloat64())
}

// formatAmount is FormatMoney for a raw persisted float.
func formatAmount(amount float64) string {
	return FormatMoney(decimal.NewFromFloat(amount))
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}

// formatPercent drops a trailing ".0" so 10 prints as "10%" and 12.5 as "12.5%".
func formatPercent(p float64) string {
	if p == math.Trunc(p) {
		return fmt.Sprintf("%.0f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}

func formatShortDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatOptionalDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return formatShortDate(*t)
}

func formatLongDate(t time.Time) string {
	return t.Format("2 January 2006")
}

func formatTimestamp(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
