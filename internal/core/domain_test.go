package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAccountingYearValidate(t *testing.T) {
	cases := []struct {
		name string
		year AccountingYear
		want error
	}{
		{"valid", AccountingYear{Name: "2024-2025", Start: date("2024-09-01"), End: date("2025-08-31")}, nil},
		{"single day", AccountingYear{Name: "flash", Start: date("2024-09-01"), End: date("2024-09-01")}, nil},
		{"empty name", AccountingYear{Name: "  ", Start: date("2024-09-01"), End: date("2025-08-31")}, ErrEmptyName},
		{"zero dates", AccountingYear{Name: "x"}, ErrInvalidDate},
		{"inverted range", AccountingYear{Name: "x", Start: date("2025-08-31"), End: date("2024-09-01")}, ErrInvalidRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.year.Validate(); err != tc.want {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestAccountingYearContains(t *testing.T) {
	year := AccountingYear{Name: "2024-2025", Start: date("2024-09-01"), End: date("2025-08-31")}
	cases := []struct {
		date string
		want bool
	}{
		{"2024-09-01", true},  // exactly on start
		{"2025-08-31", true},  // exactly on end
		{"2025-01-15", true},
		{"2024-08-31", false}, // one day before start
		{"2025-09-01", false}, // one day after end
	}
	for _, tc := range cases {
		if got := year.Contains(date(tc.date)); got != tc.want {
			t.Errorf("Contains(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestEntryValidate(t *testing.T) {
	good := Entry{
		Date:     date("2024-09-15"),
		Journal:  JournalPoste,
		Libelle:  "Don annuel",
		Category: "Dons",
		Type:     Recette,
		Amount:   amount("100"),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid entry rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(e Entry) Entry
		want   error
	}{
		{"zero date", func(e Entry) Entry { e.Date = time.Time{}; return e }, ErrInvalidDate},
		{"bad journal", func(e Entry) Entry { e.Journal = "tiroir"; return e }, ErrInvalidJournal},
		{"bad type", func(e Entry) Entry { e.Type = "transfert"; return e }, ErrInvalidType},
		{"blank libelle", func(e Entry) Entry { e.Libelle = "   "; return e }, ErrEmptyLibelle},
		{"category of other type", func(e Entry) Entry { e.Category = "Taxe bancaire"; return e }, ErrUnknownCategory},
		{"unknown category", func(e Entry) Entry { e.Category = "Lotto"; return e }, ErrUnknownCategory},
		{"negative recette", func(e Entry) Entry { e.Amount = amount("-5"); return e }, ErrInvalidAmount},
		{"zero recette", func(e Entry) Entry { e.Amount = amount("0"); return e }, ErrInvalidAmount},
		{"zero depense", func(e Entry) Entry {
			e.Type = Depense
			e.Category = "Achats matériel"
			e.Amount = amount("0")
			return e
		}, ErrInvalidAmount},
		{"positive depense", func(e Entry) Entry {
			e.Type = Depense
			e.Category = "Achats matériel"
			e.Amount = amount("5")
			return e
		}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.mutate(good).Validate(); err != tc.want {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestEntryTypeCategories(t *testing.T) {
	if got := len(Recette.Categories()); got != 5 {
		t.Errorf("recette categories = %d, want 5", got)
	}
	if got := len(Depense.Categories()); got != 8 {
		t.Errorf("depense categories = %d, want 8", got)
	}
	if Recette.HasCategory("Frais de production") {
		t.Error("depense category accepted for recette")
	}
	if !Depense.HasCategory("Frais de production") {
		t.Error("depense category rejected for depense")
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-09-01"); err != nil {
		t.Fatalf("ParseDate(valid) = %v", err)
	}
	for _, s := range []string{"", "01/09/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(s); err != ErrInvalidDate {
			t.Errorf("ParseDate(%q) = %v, want ErrInvalidDate", s, err)
		}
	}
}
