package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AE2TML/app-compta-aetml/internal/core"
)

func sampleEntries() []core.Entry {
	return []core.Entry{
		{ID: 1, Date: time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC), Journal: core.JournalPoste,
			Libelle: "cotisation étudiante", Category: "Cotisations", Type: core.Recette, Amount: dec("100")},
		{ID: 2, Date: time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC), Journal: core.JournalPoste,
			Libelle: "matériel", Category: "Frais de production", Type: core.Depense, Amount: dec("-40")},
	}
}

func TestGeneratorWrite(t *testing.T) {
	root := t.TempDir()
	g := NewGenerator(root)
	g.now = func() time.Time {
		return time.Date(2024, 9, 15, 10, 30, 0, 0, time.UTC)
	}

	doc := AssembleResultat(testYear(), core.ComputeResultat(sampleEntries()))
	path, err := g.Write(doc, "2024/2025")
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	want := filepath.Join(root, "2024-2025", "Compte_de_Resultat_20240915_103000.pdf")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestRenderPDFAllLayouts(t *testing.T) {
	year := testYear()
	entries := sampleEntries()
	bv := core.ComputeBudgetVariance(
		map[string]decimal.Decimal{"Dons": dec("500")},
		map[string]decimal.Decimal{"Dons": dec("300")},
	)
	docs := []Document{
		AssembleJournal(year, core.NewStatement(core.JournalPoste, entries)),
		AssembleResultat(year, core.ComputeResultat(entries)),
		AssembleBudget(year, bv),
	}
	for _, doc := range docs {
		var buf bytes.Buffer
		if err := RenderPDF(doc, &buf); err != nil {
			t.Errorf("%s: render: %v", doc.Stem, err)
			continue
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
			t.Errorf("%s: not a PDF", doc.Stem)
		}
	}
}
