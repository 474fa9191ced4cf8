package core

import "testing"

func mkEntry(id int64, day string, journal Journal, typ EntryType, cat, amt string) Entry {
	return Entry{
		ID:       id,
		Date:     date(day),
		Journal:  journal,
		Libelle:  "e",
		Category: cat,
		Type:     typ,
		Amount:   amount(amt),
		YearID:   1,
	}
}

func TestNewStatementEmpty(t *testing.T) {
	st := NewStatement(JournalPoste, nil)
	if len(st.Rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(st.Rows))
	}
	if !st.TotalDebit.IsZero() || !st.TotalCredit.IsZero() || !st.FinalBalance.IsZero() {
		t.Fatalf("totals = %s/%s/%s, want all zero", st.TotalDebit, st.TotalCredit, st.FinalBalance)
	}
}

func TestNewStatementRunningBalance(t *testing.T) {
	entries := []Entry{
		mkEntry(3, "2024-09-20", JournalPoste, Depense, "Achats matériel", "-30"),
		mkEntry(1, "2024-09-01", JournalPoste, Recette, "Dons", "100"),
		mkEntry(2, "2024-09-10", JournalPoste, Depense, "Frais de production", "-40"),
		mkEntry(4, "2024-09-05", JournalCaisse, Recette, "Cotisations", "999"), // other journal
	}
	st := NewStatement(JournalPoste, entries)

	if len(st.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(st.Rows))
	}
	wantBalances := []string{"100", "60", "30"}
	for i, want := range wantBalances {
		if st.Rows[i].Balance.String() != want {
			t.Errorf("row %d balance = %s, want %s", i, st.Rows[i].Balance, want)
		}
	}
	if st.TotalDebit.String() != "70" {
		t.Errorf("total debit = %s, want 70", st.TotalDebit)
	}
	if st.TotalCredit.String() != "100" {
		t.Errorf("total credit = %s, want 100", st.TotalCredit)
	}
	// Final balance equals the sum of all amounts in the journal.
	if st.FinalBalance.String() != "30" {
		t.Errorf("final balance = %s, want 30", st.FinalBalance)
	}
}

func TestNewStatementSameDayTieBreak(t *testing.T) {
	entries := []Entry{
		mkEntry(12, "2024-10-01", JournalCaisse, Recette, "Dons", "5"),
		mkEntry(7, "2024-10-01", JournalCaisse, Recette, "Dons", "10"),
	}
	st := NewStatement(JournalCaisse, entries)
	if st.Rows[0].Entry.ID != 7 || st.Rows[1].Entry.ID != 12 {
		t.Fatalf("same-day order = [%d %d], want id ascending [7 12]", st.Rows[0].Entry.ID, st.Rows[1].Entry.ID)
	}
	if st.Rows[1].Balance.String() != "15" {
		t.Errorf("final balance = %s, want 15", st.Rows[1].Balance)
	}
}

func TestStatementRowDebitCredit(t *testing.T) {
	debitRow := StatementRow{Entry: mkEntry(1, "2024-09-01", JournalPoste, Depense, "Taxe bancaire", "-12.50")}
	if d, ok := debitRow.Debit(); !ok || d.String() != "12.5" {
		t.Errorf("debit = (%s, %v), want (12.5, true)", d, ok)
	}
	if _, ok := debitRow.Credit(); ok {
		t.Error("debit row also reports a credit")
	}

	creditRow := StatementRow{Entry: mkEntry(2, "2024-09-01", JournalPoste, Recette, "Dons", "20")}
	if c, ok := creditRow.Credit(); !ok || c.String() != "20" {
		t.Errorf("credit = (%s, %v), want (20, true)", c, ok)
	}
	if _, ok := creditRow.Debit(); ok {
		t.Error("credit row also reports a debit")
	}
}

func TestNewStatementDoesNotMutateInput(t *testing.T) {
	entries := []Entry{
		mkEntry(2, "2024-09-10", JournalPoste, Recette, "Dons", "10"),
		mkEntry(1, "2024-09-01", JournalPoste, Recette, "Dons", "10"),
	}
	_ = NewStatement(JournalPoste, entries)
	if entries[0].ID != 2 {
		t.Fatal("input slice was reordered")
	}
}
