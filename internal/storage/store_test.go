package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AE2TML/app-compta-aetml/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "compta.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testYear(t *testing.T, s *Store) core.AccountingYear {
	t.Helper()
	y, err := s.InsertYear(context.Background(), core.AccountingYear{
		Name:  "2024-2025",
		Start: mustDate("2024-09-01"),
		End:   mustDate("2025-08-31"),
	})
	if err != nil {
		t.Fatalf("insert year: %v", err)
	}
	return y
}

func mustDate(s string) time.Time {
	d, err := time.Parse(core.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestInsertYearDuplicateName(t *testing.T) {
	s := newTestStore(t)
	testYear(t, s)

	_, err := s.InsertYear(context.Background(), core.AccountingYear{
		Name:  "2024-2025",
		Start: mustDate("2025-09-01"),
		End:   mustDate("2026-08-31"),
	})
	if !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("duplicate insert err = %v, want ErrDuplicateName", err)
	}
}

func TestListYearsOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, y := range []core.AccountingYear{
		{Name: "2023-2024", Start: mustDate("2023-09-01"), End: mustDate("2024-08-31")},
		{Name: "2025-2026", Start: mustDate("2025-09-01"), End: mustDate("2026-08-31")},
		{Name: "2024-2025", Start: mustDate("2024-09-01"), End: mustDate("2025-08-31")},
	} {
		if _, err := s.InsertYear(ctx, y); err != nil {
			t.Fatalf("insert %s: %v", y.Name, err)
		}
	}
	years, err := s.ListYears(ctx)
	if err != nil {
		t.Fatalf("list years: %v", err)
	}
	want := []string{"2025-2026", "2024-2025", "2023-2024"}
	for i, name := range want {
		if years[i].Name != name {
			t.Errorf("years[%d] = %s, want %s (start_date descending)", i, years[i].Name, name)
		}
	}
}

func TestEntryRoundTripAndOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	year := testYear(t, s)

	second := core.Entry{
		Date: mustDate("2024-10-01"), Journal: core.JournalPoste, Libelle: "cotisation",
		Category: "Cotisations", Type: core.Recette, Amount: dec("25.50"), YearID: year.ID,
	}
	first := core.Entry{
		Date: mustDate("2024-09-05"), Journal: core.JournalPoste, Libelle: "facture",
		Category: "Frais de production", Type: core.Depense, Amount: dec("-100"), YearID: year.ID,
	}
	caisse := core.Entry{
		Date: mustDate("2024-09-10"), Journal: core.JournalCaisse, Libelle: "babyfoot",
		Category: "Recettes babyfoot", Type: core.Recette, Amount: dec("42.35"), YearID: year.ID,
	}
	for _, e := range []core.Entry{second, first, caisse} {
		if _, err := s.InsertEntry(ctx, e, nil); err != nil {
			t.Fatalf("insert entry: %v", err)
		}
	}

	poste, err := s.ListEntries(ctx, year.ID, core.JournalPoste)
	if err != nil {
		t.Fatalf("list poste: %v", err)
	}
	if len(poste) != 2 {
		t.Fatalf("poste entries = %d, want 2", len(poste))
	}
	if poste[0].Libelle != "facture" || poste[1].Libelle != "cotisation" {
		t.Errorf("order = [%s %s], want date ascending", poste[0].Libelle, poste[1].Libelle)
	}
	if !poste[0].Amount.Equal(dec("-100")) {
		t.Errorf("amount = %s, want -100", poste[0].Amount)
	}
	if !poste[1].Amount.Equal(dec("25.50")) {
		t.Errorf("amount = %s, want 25.50", poste[1].Amount)
	}

	all, err := s.ListEntries(ctx, year.ID, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all entries = %d, want 3", len(all))
	}
}

func TestDeleteEntryCascadesCashDetails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	year := testYear(t, s)

	cash := []core.CashDetail{
		{Denomination: dec("10"), Count: 2},
		{Denomination: dec("0.05"), Count: 7},
	}
	id, err := s.InsertEntry(ctx, core.Entry{
		Date: mustDate("2024-09-10"), Journal: core.JournalCaisse, Libelle: "caisse du soir",
		Category: "Recettes babyfoot", Type: core.Recette, Amount: dec("20.35"), YearID: year.ID,
	}, cash)
	if err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	details, err := s.ListCashDetails(ctx, id)
	if err != nil {
		t.Fatalf("list cash details: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("cash rows = %d, want 2", len(details))
	}
	// Largest denomination first.
	if !details[0].Denomination.Equal(dec("10")) || !details[1].Denomination.Equal(dec("0.05")) {
		t.Errorf("order = [%s %s], want [10 0.05]", details[0].Denomination, details[1].Denomination)
	}

	if err := s.DeleteEntry(ctx, id); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	if _, err := s.GetEntry(ctx, id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get deleted entry err = %v, want ErrNotFound", err)
	}
	details, err = s.ListCashDetails(ctx, id)
	if err != nil {
		t.Fatalf("list cash details after delete: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("cash rows after delete = %d, want 0", len(details))
	}
}

// The FK pragma must hold on every pooled connection, not just the one
// that served the first query. Retiring idle connections forces the
// delete onto a fresh connection; the cascade still has to fire.
func TestDeleteEntryCascadesOnFreshConnection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	year := testYear(t, s)

	id, err := s.InsertEntry(ctx, core.Entry{
		Date: mustDate("2024-09-10"), Journal: core.JournalCaisse, Libelle: "caisse du soir",
		Category: "Recettes babyfoot", Type: core.Recette, Amount: dec("10.00"), YearID: year.ID,
	}, []core.CashDetail{{Denomination: dec("10"), Count: 1}})
	if err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	s.db.SetMaxIdleConns(0)

	if err := s.DeleteEntry(ctx, id); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	details, err := s.ListCashDetails(ctx, id)
	if err != nil {
		t.Fatalf("list cash details after delete: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("cash rows after delete = %d, want 0", len(details))
	}
}

func TestReplaceCashDetailsSwapsAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	year := testYear(t, s)

	id, err := s.InsertEntry(ctx, core.Entry{
		Date: mustDate("2024-09-10"), Journal: core.JournalCaisse, Libelle: "caisse",
		Category: "Dons", Type: core.Recette, Amount: dec("20"), YearID: year.ID,
	}, []core.CashDetail{{Denomination: dec("20"), Count: 1}})
	if err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	if err := s.ReplaceCashDetails(ctx, id, []core.CashDetail{
		{Denomination: dec("10"), Count: 1},
		{Denomination: dec("5"), Count: 2},
	}); err != nil {
		t.Fatalf("replace cash details: %v", err)
	}
	details, err := s.ListCashDetails(ctx, id)
	if err != nil {
		t.Fatalf("list cash details: %v", err)
	}
	if len(details) != 2 || !details[0].Denomination.Equal(dec("10")) {
		t.Fatalf("details = %+v, want full replacement", details)
	}
}

func TestSumEntriesByCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	year := testYear(t, s)

	for _, e := range []core.Entry{
		{Date: mustDate("2024-09-01"), Journal: core.JournalPoste, Libelle: "don a",
			Category: "Dons", Type: core.Recette, Amount: dec("100"), YearID: year.ID},
		{Date: mustDate("2024-09-02"), Journal: core.JournalCaisse, Libelle: "don b",
			Category: "Dons", Type: core.Recette, Amount: dec("50.25"), YearID: year.ID},
		{Date: mustDate("2024-09-03"), Journal: core.JournalPoste, Libelle: "taxe",
			Category: "Taxe bancaire", Type: core.Depense, Amount: dec("-12.40"), YearID: year.ID},
	} {
		if _, err := s.InsertEntry(ctx, e, nil); err != nil {
			t.Fatalf("insert entry: %v", err)
		}
	}

	sums, err := s.SumEntriesByCategory(ctx, year.ID)
	if err != nil {
		t.Fatalf("sum by category: %v", err)
	}
	if !sums["Dons"].Equal(dec("150.25")) {
		t.Errorf("Dons = %s, want 150.25", sums["Dons"])
	}
	if !sums["Taxe bancaire"].Equal(dec("-12.40")) {
		t.Errorf("Taxe bancaire = %s, want -12.40", sums["Taxe bancaire"])
	}
}

func TestBudgetUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	year := testYear(t, s)

	if err := s.UpsertBudget(ctx, year.ID, core.Budget{Category: "Dons", Amount: dec("500")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// Second write for the same (year, category) overwrites.
	if err := s.UpsertBudget(ctx, year.ID, core.Budget{Category: "Dons", Amount: dec("750")}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}

	budgets, err := s.ListBudgets(ctx, year.ID)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("budget rows = %d, want 1", len(budgets))
	}
	if !budgets[0].Amount.Equal(dec("750")) {
		t.Errorf("amount = %s, want 750", budgets[0].Amount)
	}
}

func TestSaveBudgetsWholeSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	year := testYear(t, s)

	set := []core.Budget{
		{Category: "Dons", Amount: dec("500")},
		{Category: "Cotisations", Amount: dec("120")},
		{Category: "Frais de production", Amount: dec("300")},
	}
	if err := s.SaveBudgets(ctx, year.ID, set); err != nil {
		t.Fatalf("save budgets: %v", err)
	}
	budgets, err := s.ListBudgets(ctx, year.ID)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 3 {
		t.Fatalf("budget rows = %d, want 3", len(budgets))
	}
}

func TestBackupAndRestore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	year := testYear(t, s)

	path, err := s.Backup(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("backup: %v", err)
	}

	// Mutate after the snapshot, then restore it.
	if _, err := s.InsertEntry(ctx, core.Entry{
		Date: mustDate("2024-09-01"), Journal: core.JournalPoste, Libelle: "after backup",
		Category: "Dons", Type: core.Recette, Amount: dec("10"), YearID: year.ID,
	}, nil); err != nil {
		t.Fatalf("insert entry: %v", err)
	}

	if err := s.Restore(ctx, path); err != nil {
		t.Fatalf("restore: %v", err)
	}
	entries, err := s.ListEntries(ctx, year.ID, "")
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries after restore = %d, want 0", len(entries))
	}
}
