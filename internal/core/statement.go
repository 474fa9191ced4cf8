package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StatementRow is one chronological line of a journal statement: the
// entry plus the running balance after it.
type StatementRow struct {
	Entry   Entry
	Balance decimal.Decimal
}

// Debit returns the debit column value. Only entries with a negative
// amount carry a debit; the second return is false otherwise.
func (r StatementRow) Debit() (decimal.Decimal, bool) {
	if r.Entry.Amount.IsNegative() {
		return r.Entry.Amount.Abs(), true
	}
	return decimal.Zero, false
}

// Credit returns the credit column value. Entries with a non-negative
// amount carry a credit; the second return is false otherwise.
func (r StatementRow) Credit() (decimal.Decimal, bool) {
	if !r.Entry.Amount.IsNegative() {
		return r.Entry.Amount, true
	}
	return decimal.Zero, false
}

// Statement is the chronological view of one (year, journal) pair with
// its running balance and totals.
type Statement struct {
	Journal      Journal
	Rows         []StatementRow
	TotalDebit   decimal.Decimal
	TotalCredit  decimal.Decimal
	FinalBalance decimal.Decimal
}

// NewStatement builds the statement for one journal from a year's
// entries. Entries of other journals are ignored. Ordering is date
// ascending with the entry id as same-day tie-break; the running
// balance accumulates in that order starting from zero. The input is
// not mutated.
func NewStatement(journal Journal, entries []Entry) Statement {
	rows := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Journal == journal {
			rows = append(rows, e)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ID < rows[j].ID
	})

	st := Statement{
		Journal:     journal,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	balance := decimal.Zero
	for _, e := range rows {
		balance = balance.Add(e.Amount)
		if e.Amount.IsNegative() {
			st.TotalDebit = st.TotalDebit.Add(e.Amount.Abs())
		} else {
			st.TotalCredit = st.TotalCredit.Add(e.Amount)
		}
		st.Rows = append(st.Rows, StatementRow{Entry: e, Balance: balance})
	}
	st.FinalBalance = balance
	return st
}
