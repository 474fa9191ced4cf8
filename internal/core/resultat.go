package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotal is a category name with its net entry sum.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Resultat is the income statement of a year: the per-category
// breakdowns, their totals and the net result.
//
// A recette category contributes only when its net sum is strictly
// positive; a depense category only when strictly negative (reported as
// a positive magnitude). Categories whose net sum has the wrong sign
// are excluded from the totals, not negated; they are listed in Skipped
// so callers can surface a warning without changing the figures. The
// same goes for categories outside both fixed lists, which can occur in
// restored legacy data.
type Resultat struct {
	Produits []CategoryTotal
	Charges  []CategoryTotal
	Skipped  []CategoryTotal

	TotalRecettes decimal.Decimal
	TotalDepenses decimal.Decimal
	Benefice      decimal.Decimal
}

// Label returns the result row label: benefice when the net result is
// zero or better, perte otherwise. The value itself is not affected.
func (r Resultat) Label() string {
	if r.Benefice.IsNegative() {
		return "Perte de l'exercice"
	}
	return "Bénéfice de l'exercice"
}

// ComputeResultat derives the income statement from all of a year's
// entries, both journals combined.
func ComputeResultat(entries []Entry) Resultat {
	sums := sumByCategory(entries)

	r := Resultat{
		TotalRecettes: decimal.Zero,
		TotalDepenses: decimal.Zero,
	}
	for _, cat := range RecetteCategories {
		total, seen := sums[cat]
		if !seen {
			continue
		}
		if total.IsPositive() {
			r.Produits = append(r.Produits, CategoryTotal{Category: cat, Total: total})
			r.TotalRecettes = r.TotalRecettes.Add(total)
		} else {
			r.Skipped = append(r.Skipped, CategoryTotal{Category: cat, Total: total})
		}
	}
	for _, cat := range DepenseCategories {
		total, seen := sums[cat]
		if !seen {
			continue
		}
		if total.IsNegative() {
			r.Charges = append(r.Charges, CategoryTotal{Category: cat, Total: total.Abs()})
			r.TotalDepenses = r.TotalDepenses.Add(total.Abs())
		} else {
			r.Skipped = append(r.Skipped, CategoryTotal{Category: cat, Total: total})
		}
	}
	var unknown []string
	for cat := range sums {
		if !Recette.HasCategory(cat) && !Depense.HasCategory(cat) {
			unknown = append(unknown, cat)
		}
	}
	sort.Strings(unknown)
	for _, cat := range unknown {
		r.Skipped = append(r.Skipped, CategoryTotal{Category: cat, Total: sums[cat]})
	}

	r.Benefice = r.TotalRecettes.Sub(r.TotalDepenses)
	return r
}

// Dashboard is the per-year overview: one balance per journal and the
// type-based recette/depense totals. Unlike the income statement these
// totals apply no sign filter; they follow the entry type directly.
type Dashboard struct {
	SoldePoste    decimal.Decimal
	SoldeCaisse   decimal.Decimal
	TotalRecettes decimal.Decimal
	TotalDepenses decimal.Decimal
	Benefice      decimal.Decimal
}

// ComputeDashboard derives the overview from all of a year's entries.
func ComputeDashboard(entries []Entry) Dashboard {
	d := Dashboard{
		SoldePoste:    decimal.Zero,
		SoldeCaisse:   decimal.Zero,
		TotalRecettes: decimal.Zero,
		TotalDepenses: decimal.Zero,
	}
	for _, e := range entries {
		switch e.Journal {
		case JournalPoste:
			d.SoldePoste = d.SoldePoste.Add(e.Amount)
		case JournalCaisse:
			d.SoldeCaisse = d.SoldeCaisse.Add(e.Amount)
		}
		switch e.Type {
		case Recette:
			d.TotalRecettes = d.TotalRecettes.Add(e.Amount)
		case Depense:
			d.TotalDepenses = d.TotalDepenses.Add(e.Amount.Abs())
		}
	}
	d.Benefice = d.TotalRecettes.Sub(d.TotalDepenses)
	return d
}

func sumByCategory(entries []Entry) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range entries {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	return sums
}
