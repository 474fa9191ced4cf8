package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AE2TML/app-compta-aetml/internal/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testYear() core.AccountingYear {
	return core.AccountingYear{
		ID:    1,
		Name:  "2024-2025",
		Start: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
	}
}

func docTexts(doc Document) []string {
	var out []string
	for _, r := range doc.Rows {
		for _, c := range r.Cells {
			out = append(out, c.Text)
		}
	}
	return out
}

func containsText(doc Document, want string) bool {
	for _, t := range docTexts(doc) {
		if t == want {
			return true
		}
	}
	return false
}

func TestAssembleJournal(t *testing.T) {
	entries := []core.Entry{
		{ID: 1, Date: time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC), Journal: core.JournalPoste,
			Libelle: "cotisation", Category: "Cotisations", Type: core.Recette, Amount: dec("100")},
		{ID: 2, Date: time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC), Journal: core.JournalPoste,
			Libelle: "matériel", Category: "Frais de production", Type: core.Depense, Amount: dec("-40")},
	}
	doc := AssembleJournal(testYear(), core.NewStatement(core.JournalPoste, entries))

	if doc.Title != "Journal de Poste - Exercice 2024-2025" {
		t.Errorf("title = %q", doc.Title)
	}
	if doc.Stem != StemJournalPoste {
		t.Errorf("stem = %q", doc.Stem)
	}
	// Header + 2 entries + spacer + 3 total lines.
	if len(doc.Rows) != 7 {
		t.Fatalf("rows = %d, want 7", len(doc.Rows))
	}

	first := doc.Rows[1].Cells
	if first[0].Text != "05/09/2024" {
		t.Errorf("date = %q, want day-first format", first[0].Text)
	}
	if first[4].Text != "100.00" {
		t.Errorf("solde = %q, want 100.00", first[4].Text)
	}
	second := doc.Rows[2].Cells
	if second[4].Text != "60.00" {
		t.Errorf("running solde = %q, want 60.00", second[4].Text)
	}
	for _, want := range []string{"Total Débit", "Total Crédit", "Solde Final", "40.00", "60.00"} {
		if !containsText(doc, want) {
			t.Errorf("missing %q in document", want)
		}
	}
}

func TestAssembleJournalCaisseStem(t *testing.T) {
	doc := AssembleJournal(testYear(), core.NewStatement(core.JournalCaisse, nil))
	if doc.Stem != StemJournalCaisse {
		t.Errorf("stem = %q, want %q", doc.Stem, StemJournalCaisse)
	}
	if !strings.HasPrefix(doc.Title, "Journal de Caisse") {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestAssembleResultat(t *testing.T) {
	r := core.ComputeResultat([]core.Entry{
		{ID: 1, Category: "Dons", Type: core.Recette, Amount: dec("100")},
		{ID: 2, Category: "Frais de production", Type: core.Depense, Amount: dec("-40")},
	})
	doc := AssembleResultat(testYear(), r)

	if doc.Stem != StemResultat {
		t.Errorf("stem = %q", doc.Stem)
	}
	for _, want := range []string{
		"Produits (Recettes)", "Charges (Dépenses)",
		"Total des Produits", "Total des Charges",
		"Dons", "Frais de production",
		"Bénéfice de l'exercice", "60.00",
	} {
		if !containsText(doc, want) {
			t.Errorf("missing %q in document", want)
		}
	}
	// Charges shown as positive magnitudes.
	if !containsText(doc, "40.00") {
		t.Errorf("charges should render as 40.00")
	}
}

func TestAssembleBudgetListsEveryCategory(t *testing.T) {
	bv := core.ComputeBudgetVariance(
		map[string]decimal.Decimal{"Dons": dec("500")},
		map[string]decimal.Decimal{"Dons": dec("300"), "Taxe bancaire": dec("-12")},
	)
	doc := AssembleBudget(testYear(), bv)

	if doc.Stem != StemBudget {
		t.Errorf("stem = %q", doc.Stem)
	}
	for _, cat := range core.RecetteCategories {
		if !containsText(doc, cat) {
			t.Errorf("missing recette category %q", cat)
		}
	}
	for _, cat := range core.DepenseCategories {
		if !containsText(doc, cat) {
			t.Errorf("missing depense category %q", cat)
		}
	}
	for _, want := range []string{
		"Catégorie", "Budgeté", "Réel", "Différence",
		"Total Recettes", "Total Dépenses",
		"Résultat Budgeté", "Résultat Réel", "200.00", "12.00",
	} {
		if !containsText(doc, want) {
			t.Errorf("missing %q in document", want)
		}
	}
}
