// Amount parsing helpers shared by the entry and budget save paths.
//
// User input accepts both dot (12.34) and comma (12,34) decimal
// separators; everything else is a validation error.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered amount string to a decimal
// magnitude. The value must be non-negative; the sign is applied later
// from the entry type (see SignedAmount).
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	// Amounts are kept in cents; half-up rounding on the third decimal.
	return d.Round(2), nil
}

// ParseBudgetAmount is ParseAmount with the budget-form convention that
// a blank field means 0.00.
func ParseBudgetAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return ParseAmount(s)
}

// SignedAmount applies the type's sign convention to a magnitude:
// recettes stay positive, depenses become negative.
func SignedAmount(t EntryType, magnitude decimal.Decimal) decimal.Decimal {
	if t == Depense {
		return magnitude.Abs().Neg()
	}
	return magnitude.Abs()
}

// FormatAmount renders an amount with the fixed two decimals used in
// every view and report.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
