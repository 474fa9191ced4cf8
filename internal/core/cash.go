package core

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// Denominations is the fixed set of cash units a caisse breakdown may
// count, largest first.
var Denominations = []decimal.Decimal{
	decimal.NewFromInt(100),
	decimal.NewFromInt(50),
	decimal.NewFromInt(20),
	decimal.NewFromInt(10),
	decimal.NewFromInt(5),
	decimal.NewFromInt(2),
	decimal.NewFromInt(1),
	decimal.New(50, -2),
	decimal.New(20, -2),
	decimal.New(10, -2),
	decimal.New(5, -2),
}

var (
	ErrUnknownDenomination = errors.New("unknown denomination")
	ErrNegativeCount       = errors.New("negative denomination count")
)

// CashDetail counts how many pieces of one denomination a caisse entry
// holds.
type CashDetail struct {
	Denomination decimal.Decimal
	Count        int
}

// Amount returns denomination times count.
func (c CashDetail) Amount() decimal.Decimal {
	return c.Denomination.Mul(decimal.NewFromInt(int64(c.Count)))
}

// KnownDenomination reports whether d is one of the fixed cash units.
func KnownDenomination(d decimal.Decimal) bool {
	for _, known := range Denominations {
		if known.Equal(d) {
			return true
		}
	}
	return false
}

// CashTotal sums denomination times count over the breakdown. The
// result does not depend on input order.
func CashTotal(details []CashDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Amount())
	}
	return total
}

// NormalizeCashDetails validates a breakdown and puts it in canonical
// form: zero counts dropped, one row per denomination, sorted by
// denomination descending. Negative counts and denominations outside
// the fixed set are rejected.
func NormalizeCashDetails(details []CashDetail) ([]CashDetail, error) {
	merged := make(map[string]CashDetail, len(details))
	for _, d := range details {
		if d.Count < 0 {
			return nil, ErrNegativeCount
		}
		if !KnownDenomination(d.Denomination) {
			return nil, ErrUnknownDenomination
		}
		if d.Count == 0 {
			continue
		}
		key := d.Denomination.String()
		prev := merged[key]
		merged[key] = CashDetail{Denomination: d.Denomination, Count: prev.Count + d.Count}
	}
	out := make([]CashDetail, 0, len(merged))
	for _, d := range merged {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Denomination.GreaterThan(out[j].Denomination)
	})
	return out, nil
}

// ReconcileCash returns the difference between the breakdown total and
// the entry amount's magnitude. Zero means the counted cash matches the
// recorded movement.
func ReconcileCash(details []CashDetail, amount decimal.Decimal) decimal.Decimal {
	return CashTotal(details).Sub(amount.Abs())
}
