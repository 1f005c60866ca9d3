// Package moneypkg formats peso amounts for display.
package moneypkg

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCOP renders an amount the way the portal displays Colombian pesos:
// a $ sign, dot thousand separators and no decimal places.
func FormatCOP(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	digits := rounded.Abs().String()

	var sb strings.Builder

	if rounded.IsNegative() {
		sb.WriteByte('-')
	}

	sb.WriteString("$ ")

	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
		if len(digits) > lead {
			sb.WriteByte('.')
		}
	}

	for i := lead; i < len(digits); i += 3 {
		sb.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			sb.WriteByte('.')
		}
	}

	return sb.String()
}
