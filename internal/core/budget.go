package core

import "github.com/shopspring/decimal"

// BudgetLine compares one category's budgeted figure with its actual
// entry total. Actual is always a positive magnitude; Diff is budget
// minus actual.
type BudgetLine struct {
	Category string
	Budget   decimal.Decimal
	Actual   decimal.Decimal
	Diff     decimal.Decimal
}

// BudgetSection is one side (recettes or depenses) of the budget
// comparison. Every fixed category appears, budgeted or not.
type BudgetSection struct {
	Title       string
	Lines       []BudgetLine
	TotalBudget decimal.Decimal
	TotalActual decimal.Decimal
}

// TotalDiff returns the section-level budget minus actual.
func (s BudgetSection) TotalDiff() decimal.Decimal {
	return s.TotalBudget.Sub(s.TotalActual)
}

// BudgetVariance is the full budget-vs-actual comparison for a year.
type BudgetVariance struct {
	Recettes BudgetSection
	Depenses BudgetSection

	ResultatBudgeted decimal.Decimal
	ResultatActual   decimal.Decimal
}

// ComputeBudgetVariance compares budgeted figures against actual
// per-category entry sums. A category with no budget row counts as
// 0.00 budgeted; actuals are taken as absolute values so depense
// actuals read as positive magnitudes. Unlike the income statement no
// sign filter applies: every category contributes to its section
// totals.
func ComputeBudgetVariance(budgets, actuals map[string]decimal.Decimal) BudgetVariance {
	section := func(title string, categories []string) BudgetSection {
		s := BudgetSection{
			Title:       title,
			TotalBudget: decimal.Zero,
			TotalActual: decimal.Zero,
		}
		for _, cat := range categories {
			budget := budgets[cat]
			actual := actuals[cat].Abs()
			s.Lines = append(s.Lines, BudgetLine{
				Category: cat,
				Budget:   budget,
				Actual:   actual,
				Diff:     budget.Sub(actual),
			})
			s.TotalBudget = s.TotalBudget.Add(budget)
			s.TotalActual = s.TotalActual.Add(actual)
		}
		return s
	}

	v := BudgetVariance{
		Recettes: section("Recettes", RecetteCategories),
		Depenses: section("Dépenses", DepenseCategories),
	}
	v.ResultatBudgeted = v.Recettes.TotalBudget.Sub(v.Depenses.TotalBudget)
	v.ResultatActual = v.Recettes.TotalActual.Sub(v.Depenses.TotalActual)
	return v
}
