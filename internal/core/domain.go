// Package core defines the bookkeeping domain model and the pure
// calculators that derive balances, income-statement totals and budget
// variances from recorded entries.
package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire and storage format for all calendar dates.
const DateFormat = "2006-01-02"

const (
	JournalPoste  Journal = "poste"
	JournalCaisse Journal = "caisse"

	Recette EntryType = "recette"
	Depense EntryType = "depense"
)

type (
	// Journal identifies one of the two parallel ledgers: the bank
	// account ("poste") or the physical cash box ("caisse").
	Journal string

	// EntryType classifies an entry as income or expense and carries
	// its fixed category vocabulary.
	EntryType string

	// AccountingYear is a named, bounded date range scoping entries
	// and budgets. Immutable once created.
	AccountingYear struct {
		ID    int64
		Name  string
		Start time.Time
		End   time.Time
	}

	// Entry is one signed financial movement. Amount is positive for
	// recettes and negative for depenses.
	Entry struct {
		ID             int64
		Date           time.Time
		Journal        Journal
		Libelle        string
		Category       string
		Type           EntryType
		Amount         decimal.Decimal
		YearID         int64
		AttachmentPath string
	}

	// Budget is the budgeted figure for one category within a year.
	// At most one per (year, category).
	Budget struct {
		Category string
		Amount   decimal.Decimal
	}
)

// RecetteCategories and DepenseCategories are the fixed category
// vocabularies. Order is the display and report order.
var (
	RecetteCategories = []string{
		"Recettes babyfoot",
		"Dons",
		"Sponsoring",
		"Cotisations",
		"Autre Recette",
	}
	DepenseCategories = []string{
		"Frais de production",
		"Frais de communication",
		"Frais de représentation",
		"Charges financières",
		"Taxe bancaire",
		"Prix et sponsoring",
		"Achats matériel",
		"Autre Dépense",
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrDateOutOfRange  = errors.New("date outside accounting year")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyLibelle    = errors.New("empty libelle")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidRange    = errors.New("start date after end date")
	ErrInvalidJournal  = errors.New("invalid journal")
	ErrInvalidType     = errors.New("invalid entry type")
	ErrUnknownCategory = errors.New("category does not belong to entry type")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateName   = errors.New("name already exists")
)

// Valid reports whether j is one of the two known journals.
func (j Journal) Valid() bool {
	return j == JournalPoste || j == JournalCaisse
}

// Title returns the report title for the journal.
func (j Journal) Title() string {
	if j == JournalCaisse {
		return "Journal de Caisse"
	}
	return "Journal de Poste"
}

// Valid reports whether t is one of the two known entry types.
func (t EntryType) Valid() bool {
	return t == Recette || t == Depense
}

// Categories returns the fixed category list attached to the type.
func (t EntryType) Categories() []string {
	if t == Recette {
		return RecetteCategories
	}
	return DepenseCategories
}

// HasCategory reports whether category belongs to the type's list.
func (t EntryType) HasCategory(category string) bool {
	for _, c := range t.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

func (y AccountingYear) Validate() error {
	if strings.TrimSpace(y.Name) == "" {
		return ErrEmptyName
	}
	if y.Start.IsZero() || y.End.IsZero() {
		return ErrInvalidDate
	}
	if y.Start.After(y.End) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether date falls within [Start, End] inclusive.
func (y AccountingYear) Contains(date time.Time) bool {
	return !date.Before(y.Start) && !date.After(y.End)
}

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if !e.Journal.Valid() {
		return ErrInvalidJournal
	}
	if !e.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(e.Libelle) == "" {
		return ErrEmptyLibelle
	}
	if !e.Type.HasCategory(e.Category) {
		return ErrUnknownCategory
	}
	// Sign must agree with the type: recettes > 0, depenses < 0. Zero
	// is never a valid movement.
	if e.Type == Recette && e.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if e.Type == Depense && e.Amount.Sign() >= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
