// Package report turns computed ledger figures into printable PDF
// documents. Assembly and rendering are split: assemblers produce a
// plain row model, the renderer only knows fonts and cell geometry.
package report

import (
	"fmt"

	"github.com/AE2TML/app-compta-aetml/internal/core"
)

const appTitle = "AETML - Gestion Comptable"

// File name stems, timestamped by the generator.
const (
	StemJournalPoste  = "Journal_de_Poste"
	StemJournalCaisse = "Journal_de_Caisse"
	StemResultat      = "Compte_de_Resultat"
	StemBudget        = "Rapport_Budget"
)

// Cell is one table cell. Border uses the renderer's border codes:
// "" none, "1" full box, "B" bottom rule, "T" top rule.
type Cell struct {
	Text   string
	Width  float64 // 0 spans the remaining line
	Align  string  // "", "C" or "R"
	Border string
	Fill   bool
}

// Row is a line of cells sharing one font setting.
type Row struct {
	Cells    []Cell
	Bold     bool
	Size     float64
	Height   float64
	GapAfter float64 // vertical space after the row, in mm
}

// Document is a fully assembled report, ready to render.
type Document struct {
	Title string
	Stem  string
	Rows  []Row
}

func journalHeader() Row {
	return Row{
		Bold: true, Size: 10, Height: 8,
		Cells: []Cell{
			{Text: "Date", Width: 25, Align: "C", Border: "1", Fill: true},
			{Text: "Catégorie", Width: 45, Align: "C", Border: "1", Fill: true},
			{Text: "Libellé", Width: 60, Align: "C", Border: "1", Fill: true},
			{Text: "Montant", Width: 25, Align: "C", Border: "1", Fill: true},
			{Text: "Solde", Width: 25, Align: "C", Border: "1", Fill: true},
		},
	}
}

// AssembleJournal lays out one journal statement: the column header,
// one row per entry with its running balance, then the totals.
func AssembleJournal(year core.AccountingYear, st core.Statement) Document {
	stem := StemJournalPoste
	if st.Journal == core.JournalCaisse {
		stem = StemJournalCaisse
	}
	doc := Document{
		Title: fmt.Sprintf("%s - Exercice %s", st.Journal.Title(), year.Name),
		Stem:  stem,
		Rows:  []Row{journalHeader()},
	}
	for _, r := range st.Rows {
		doc.Rows = append(doc.Rows, Row{
			Size: 9, Height: 7,
			Cells: []Cell{
				{Text: r.Entry.Date.Format("02/01/2006"), Width: 25, Border: "1"},
				{Text: r.Entry.Category, Width: 45, Border: "1"},
				{Text: r.Entry.Libelle, Width: 60, Border: "1"},
				{Text: core.FormatAmount(r.Entry.Amount), Width: 25, Align: "R", Border: "1"},
				{Text: core.FormatAmount(r.Balance), Width: 25, Align: "R", Border: "1"},
			},
		})
	}
	doc.Rows = append(doc.Rows,
		Row{Size: 9, Height: 7, GapAfter: 5},
		Row{
			Bold: true, Size: 10, Height: 7,
			Cells: []Cell{
				{Text: "Total Débit", Width: 130, Align: "R"},
				{Text: core.FormatAmount(st.TotalDebit), Width: 50, Align: "R"},
			},
		},
		Row{
			Bold: true, Size: 10, Height: 7,
			Cells: []Cell{
				{Text: "Total Crédit", Width: 130, Align: "R"},
				{Text: core.FormatAmount(st.TotalCredit), Width: 50, Align: "R"},
			},
		},
		Row{
			Bold: true, Size: 10, Height: 8,
			Cells: []Cell{
				{Text: "Solde Final", Width: 130, Align: "R"},
				{Text: core.FormatAmount(st.FinalBalance), Width: 50, Align: "R", Border: "1"},
			},
		},
	)
	return doc
}

func resultatSection(title string, totals []core.CategoryTotal, totalLabel string, total string) []Row {
	rows := []Row{{
		Bold: true, Size: 12, Height: 10,
		Cells: []Cell{{Text: title, Border: "B"}},
	}}
	for _, ct := range totals {
		rows = append(rows, Row{
			Size: 10, Height: 7,
			Cells: []Cell{
				{Text: ct.Category, Width: 130},
				{Text: core.FormatAmount(ct.Total), Width: 40, Align: "R"},
			},
		})
	}
	rows = append(rows, Row{
		Bold: true, Size: 10, Height: 8, GapAfter: 10,
		Cells: []Cell{
			{Text: totalLabel, Width: 130, Align: "R", Border: "T"},
			{Text: total, Width: 40, Align: "R", Border: "T"},
		},
	})
	return rows
}

// AssembleResultat lays out the income statement: produits, charges
// and the closing bénéfice/perte line.
func AssembleResultat(year core.AccountingYear, r core.Resultat) Document {
	doc := Document{
		Title: fmt.Sprintf("Compte de Résultat - Exercice %s", year.Name),
		Stem:  StemResultat,
	}
	doc.Rows = append(doc.Rows, resultatSection("Produits (Recettes)", r.Produits,
		"Total des Produits", core.FormatAmount(r.TotalRecettes))...)
	doc.Rows = append(doc.Rows, resultatSection("Charges (Dépenses)", r.Charges,
		"Total des Charges", core.FormatAmount(r.TotalDepenses))...)
	doc.Rows = append(doc.Rows, Row{
		Bold: true, Size: 12, Height: 8,
		Cells: []Cell{
			{Text: r.Label(), Width: 130, Align: "R"},
			{Text: core.FormatAmount(r.Benefice), Width: 40, Align: "R", Border: "1"},
		},
	})
	return doc
}

func budgetSection(s core.BudgetSection) []Row {
	rows := []Row{{
		Bold: true, Size: 11, Height: 10,
		Cells: []Cell{{Text: s.Title}},
	}}
	for _, l := range s.Lines {
		rows = append(rows, Row{
			Size: 9, Height: 7,
			Cells: []Cell{
				{Text: l.Category, Width: 80, Border: "1"},
				{Text: core.FormatAmount(l.Budget), Width: 30, Align: "R", Border: "1"},
				{Text: core.FormatAmount(l.Actual), Width: 30, Align: "R", Border: "1"},
				{Text: core.FormatAmount(l.Diff), Width: 30, Align: "R", Border: "1"},
			},
		})
	}
	rows = append(rows, Row{
		Bold: true, Size: 9, Height: 7, GapAfter: 5,
		Cells: []Cell{
			{Text: "Total " + s.Title, Width: 80, Align: "R", Border: "1"},
			{Text: core.FormatAmount(s.TotalBudget), Width: 30, Align: "R", Border: "1"},
			{Text: core.FormatAmount(s.TotalActual), Width: 30, Align: "R", Border: "1"},
			{Text: core.FormatAmount(s.TotalDiff()), Width: 30, Align: "R", Border: "1"},
		},
	})
	return rows
}

// AssembleBudget lays out the budget variance report: one table per
// section, then the budgeted and actual results side by side.
func AssembleBudget(year core.AccountingYear, bv core.BudgetVariance) Document {
	doc := Document{
		Title: fmt.Sprintf("Rapport de Budget - Exercice %s", year.Name),
		Stem:  StemBudget,
		Rows: []Row{{
			Bold: true, Size: 10, Height: 8,
			Cells: []Cell{
				{Text: "Catégorie", Width: 80, Align: "C", Border: "1", Fill: true},
				{Text: "Budgeté", Width: 30, Align: "C", Border: "1", Fill: true},
				{Text: "Réel", Width: 30, Align: "C", Border: "1", Fill: true},
				{Text: "Différence", Width: 30, Align: "C", Border: "1", Fill: true},
			},
		}},
	}
	doc.Rows = append(doc.Rows, budgetSection(bv.Recettes)...)
	doc.Rows = append(doc.Rows, budgetSection(bv.Depenses)...)
	doc.Rows = append(doc.Rows,
		Row{Size: 9, Height: 1, GapAfter: 5},
		Row{
			Bold: true, Size: 12, Height: 8,
			Cells: []Cell{
				{Text: "Résultat Budgeté", Width: 80, Align: "R"},
				{Text: core.FormatAmount(bv.ResultatBudgeted), Width: 40, Align: "R", Border: "1"},
			},
		},
		Row{
			Bold: true, Size: 12, Height: 8,
			Cells: []Cell{
				{Text: "Résultat Réel", Width: 80, Align: "R"},
				{Text: core.FormatAmount(bv.ResultatActual), Width: 40, Align: "R", Border: "1"},
			},
		},
	)
	return doc
}
