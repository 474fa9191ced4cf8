// Package services wires the domain calculators, the SQLite store, the
// attachment store and the report generator into the engine operations
// the API exposes. Every operation takes the accounting year it acts
// on; nothing here holds a "current year".
package services

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/AE2TML/app-compta-aetml/internal/attachments"
	"github.com/AE2TML/app-compta-aetml/internal/core"
	"github.com/AE2TML/app-compta-aetml/internal/log"
	"github.com/AE2TML/app-compta-aetml/internal/report"
	"github.com/AE2TML/app-compta-aetml/internal/storage"
)

// Report kinds accepted by GenerateReport.
const (
	ReportJournalPoste  = "journal_poste"
	ReportJournalCaisse = "journal_caisse"
	ReportResultat      = "resultat"
	ReportBudget        = "budget"
)

type LedgerService struct {
	store       *storage.Store
	attachments *attachments.Store
	reports     *report.Generator
	backupsDir  string
	logger      *log.Logger
}

func NewLedgerService(store *storage.Store, att *attachments.Store, gen *report.Generator, backupsDir string, logger *log.Logger) *LedgerService {
	return &LedgerService{
		store:       store,
		attachments: att,
		reports:     gen,
		backupsDir:  backupsDir,
		logger:      logger.WithComponent(log.ComponentLedger),
	}
}

// YearInput carries a new accounting year as entered by the user.
type YearInput struct {
	Name  string
	Start string
	End   string
}

// AttachmentUpload is a justificatif file streamed in with an entry.
type AttachmentUpload struct {
	Name   string
	Reader io.Reader
}

// EntryInput carries one ledger entry as entered by the user. Amount is
// the unsigned magnitude; the sign comes from Type. CashCounts maps
// denomination strings ("10", "0.05") to counts and is only meaningful
// on the caisse journal.
type EntryInput struct {
	Date       string
	Journal    string
	Libelle    string
	Category   string
	Type       string
	Amount     string
	CashCounts map[string]int
	Attachment *AttachmentUpload
}

// EntryResult is a saved entry plus the cash reconciliation outcome.
// CashDelta is counted cash minus |amount|; nil when no cash breakdown
// was supplied. A non-zero delta is reported, never enforced.
type EntryResult struct {
	Entry     core.Entry
	CashDelta *decimal.Decimal
}

// CashView is the stored breakdown of one entry with its recomputed
// total and the reconciliation delta against the entry amount.
type CashView struct {
	Entry   core.Entry
	Details []core.CashDetail
	Total   decimal.Decimal
	Delta   decimal.Decimal
}

func (s *LedgerService) CreateYear(ctx context.Context, in YearInput) (core.AccountingYear, error) {
	start, err := core.ParseDate(in.Start)
	if err != nil {
		return core.AccountingYear{}, fmt.Errorf("start date: %w", err)
	}
	end, err := core.ParseDate(in.End)
	if err != nil {
		return core.AccountingYear{}, fmt.Errorf("end date: %w", err)
	}

	year := core.AccountingYear{Name: in.Name, Start: start, End: end}
	if err := year.Validate(); err != nil {
		return core.AccountingYear{}, err
	}

	created, err := s.store.InsertYear(ctx, year)
	if err != nil {
		return core.AccountingYear{}, err
	}
	s.logger.InfoContext(ctx, "accounting year created",
		log.FieldYearID, created.ID, log.FieldYearName, created.Name)
	return created, nil
}

func (s *LedgerService) ListYears(ctx context.Context) ([]core.AccountingYear, error) {
	return s.store.ListYears(ctx)
}

func (s *LedgerService) Year(ctx context.Context, yearID int64) (core.AccountingYear, error) {
	return s.store.GetYear(ctx, yearID)
}

// parseEntry turns raw input into a validated entry for the given year.
func (s *LedgerService) parseEntry(year core.AccountingYear, in EntryInput) (core.Entry, []core.CashDetail, error) {
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Entry{}, nil, err
	}
	if !year.Contains(date) {
		return core.Entry{}, nil, fmt.Errorf("date %s outside exercice %s: %w",
			in.Date, year.Name, core.ErrDateOutOfRange)
	}

	typ := core.EntryType(in.Type)
	if !typ.Valid() {
		return core.Entry{}, nil, fmt.Errorf("entry type %q: %w", in.Type, core.ErrInvalidType)
	}
	magnitude, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Entry{}, nil, err
	}

	entry := core.Entry{
		Date:     date,
		Journal:  core.Journal(in.Journal),
		Libelle:  in.Libelle,
		Category: in.Category,
		Type:     typ,
		Amount:   core.SignedAmount(typ, magnitude),
		YearID:   year.ID,
	}
	if err := entry.Validate(); err != nil {
		return core.Entry{}, nil, err
	}

	cash, err := parseCashCounts(in.CashCounts)
	if err != nil {
		return core.Entry{}, nil, err
	}
	if len(cash) > 0 && entry.Journal != core.JournalCaisse {
		return core.Entry{}, nil, fmt.Errorf("cash breakdown on %s journal: %w",
			entry.Journal, core.ErrInvalidJournal)
	}
	return entry, cash, nil
}

func parseCashCounts(counts map[string]int) ([]core.CashDetail, error) {
	if len(counts) == 0 {
		return nil, nil
	}
	details := make([]core.CashDetail, 0, len(counts))
	for denom, count := range counts {
		d, err := decimal.NewFromString(denom)
		if err != nil {
			return nil, fmt.Errorf("denomination %q: %w", denom, core.ErrUnknownDenomination)
		}
		details = append(details, core.CashDetail{Denomination: d, Count: count})
	}
	return core.NormalizeCashDetails(details)
}

// SaveEntry validates and persists a new entry. The attachment is
// copied before anything touches the database: if the copy fails the
// entry is not persisted, and if the insert fails the copy is removed.
func (s *LedgerService) SaveEntry(ctx context.Context, yearID int64, in EntryInput) (EntryResult, error) {
	year, err := s.store.GetYear(ctx, yearID)
	if err != nil {
		return EntryResult{}, err
	}
	entry, cash, err := s.parseEntry(year, in)
	if err != nil {
		return EntryResult{}, err
	}

	if in.Attachment != nil {
		rel, err := s.attachments.SaveReader(in.Attachment.Reader, in.Attachment.Name, year.ID)
		if err != nil {
			return EntryResult{}, err
		}
		entry.AttachmentPath = rel
	}

	id, err := s.store.InsertEntry(ctx, entry, cash)
	if err != nil {
		if entry.AttachmentPath != "" {
			s.attachments.Remove(entry.AttachmentPath)
		}
		return EntryResult{}, err
	}
	entry.ID = id

	s.logger.InfoContext(ctx, "entry saved",
		log.FieldEntryID, id, log.FieldJournal, string(entry.Journal),
		log.FieldCategory, entry.Category, log.FieldAmount, core.FormatAmount(entry.Amount))
	return EntryResult{Entry: entry, CashDelta: s.cashDelta(ctx, entry, cash)}, nil
}

// UpdateEntry replaces an existing entry. A new attachment supersedes
// the old file; without one the stored attachment is kept.
func (s *LedgerService) UpdateEntry(ctx context.Context, entryID int64, in EntryInput) (EntryResult, error) {
	old, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return EntryResult{}, err
	}
	year, err := s.store.GetYear(ctx, old.YearID)
	if err != nil {
		return EntryResult{}, err
	}
	entry, cash, err := s.parseEntry(year, in)
	if err != nil {
		return EntryResult{}, err
	}
	entry.ID = entryID
	entry.AttachmentPath = old.AttachmentPath

	if in.Attachment != nil {
		rel, err := s.attachments.SaveReader(in.Attachment.Reader, in.Attachment.Name, year.ID)
		if err != nil {
			return EntryResult{}, err
		}
		entry.AttachmentPath = rel
	}

	if err := s.store.UpdateEntry(ctx, entry, cash); err != nil {
		if in.Attachment != nil {
			s.attachments.Remove(entry.AttachmentPath)
		}
		return EntryResult{}, err
	}
	if in.Attachment != nil && old.AttachmentPath != "" {
		if err := s.attachments.Remove(old.AttachmentPath); err != nil {
			s.logger.WarnContext(ctx, "stale attachment left on disk",
				log.FieldEntryID, entryID, log.FieldFile, old.AttachmentPath, log.FieldError, err)
		}
	}

	s.logger.InfoContext(ctx, "entry updated", log.FieldEntryID, entryID)
	return EntryResult{Entry: entry, CashDelta: s.cashDelta(ctx, entry, cash)}, nil
}

func (s *LedgerService) cashDelta(ctx context.Context, entry core.Entry, cash []core.CashDetail) *decimal.Decimal {
	if len(cash) == 0 {
		return nil
	}
	delta := core.ReconcileCash(cash, entry.Amount)
	if !delta.IsZero() {
		s.logger.WarnContext(ctx, "cash count does not match entry amount",
			log.FieldEntryID, entry.ID, log.FieldAmount, core.FormatAmount(entry.Amount),
			"delta", core.FormatAmount(delta))
	}
	return &delta
}

// DeleteEntry removes the entry, its cash rows (cascaded) and its
// attachment file.
func (s *LedgerService) DeleteEntry(ctx context.Context, entryID int64) error {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteEntry(ctx, entryID); err != nil {
		return err
	}
	if entry.AttachmentPath != "" {
		if err := s.attachments.Remove(entry.AttachmentPath); err != nil {
			s.logger.WarnContext(ctx, "orphan attachment left on disk",
				log.FieldEntryID, entryID, log.FieldFile, entry.AttachmentPath, log.FieldError, err)
		}
	}
	s.logger.InfoContext(ctx, "entry deleted", log.FieldEntryID, entryID)
	return nil
}

func (s *LedgerService) Entry(ctx context.Context, entryID int64) (core.Entry, error) {
	return s.store.GetEntry(ctx, entryID)
}

// AttachmentPath resolves a stored relative attachment path to a full
// filesystem path.
func (s *LedgerService) AttachmentPath(rel string) string {
	return s.attachments.Resolve(rel)
}

// JournalView returns one journal's statement with running balances.
func (s *LedgerService) JournalView(ctx context.Context, yearID int64, journal core.Journal) (core.Statement, error) {
	if !journal.Valid() {
		return core.Statement{}, fmt.Errorf("journal %q: %w", journal, core.ErrInvalidJournal)
	}
	if _, err := s.store.GetYear(ctx, yearID); err != nil {
		return core.Statement{}, err
	}
	entries, err := s.store.ListEntries(ctx, yearID, journal)
	if err != nil {
		return core.Statement{}, err
	}
	return core.NewStatement(journal, entries), nil
}

// Dashboard returns the exercice summary figures.
func (s *LedgerService) Dashboard(ctx context.Context, yearID int64) (core.Dashboard, error) {
	if _, err := s.store.GetYear(ctx, yearID); err != nil {
		return core.Dashboard{}, err
	}
	entries, err := s.store.ListEntries(ctx, yearID, "")
	if err != nil {
		return core.Dashboard{}, err
	}
	return core.ComputeDashboard(entries), nil
}

// CashDetailView returns the stored breakdown for one entry.
func (s *LedgerService) CashDetailView(ctx context.Context, entryID int64) (CashView, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return CashView{}, err
	}
	details, err := s.store.ListCashDetails(ctx, entryID)
	if err != nil {
		return CashView{}, err
	}
	return CashView{
		Entry:   entry,
		Details: details,
		Total:   core.CashTotal(details),
		Delta:   core.ReconcileCash(details, entry.Amount),
	}, nil
}

// SaveBudget parses and validates the whole category set before any
// write; the store persists it in a single transaction. Blank amounts
// mean zero, unknown categories are rejected.
func (s *LedgerService) SaveBudget(ctx context.Context, yearID int64, amounts map[string]string) error {
	if _, err := s.store.GetYear(ctx, yearID); err != nil {
		return err
	}

	budgets := make([]core.Budget, 0, len(amounts))
	for category, raw := range amounts {
		if !core.Recette.HasCategory(category) && !core.Depense.HasCategory(category) {
			return fmt.Errorf("category %q: %w", category, core.ErrUnknownCategory)
		}
		amount, err := core.ParseBudgetAmount(raw)
		if err != nil {
			return fmt.Errorf("category %q: %w", category, err)
		}
		budgets = append(budgets, core.Budget{Category: category, Amount: amount})
	}

	if err := s.store.SaveBudgets(ctx, yearID, budgets); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "budgets saved", log.FieldYearID, yearID, "categories", len(budgets))
	return nil
}

// BudgetView computes the variance report from stored budgets and the
// current entry sums.
func (s *LedgerService) BudgetView(ctx context.Context, yearID int64) (core.BudgetVariance, error) {
	if _, err := s.store.GetYear(ctx, yearID); err != nil {
		return core.BudgetVariance{}, err
	}
	stored, err := s.store.ListBudgets(ctx, yearID)
	if err != nil {
		return core.BudgetVariance{}, err
	}
	budgets := make(map[string]decimal.Decimal, len(stored))
	for _, b := range stored {
		budgets[b.Category] = b.Amount
	}
	actuals, err := s.store.SumEntriesByCategory(ctx, yearID)
	if err != nil {
		return core.BudgetVariance{}, err
	}
	return core.ComputeBudgetVariance(budgets, actuals), nil
}

// GenerateReport renders one of the four report kinds to a PDF file
// and returns its path. Figures are read fresh from the store.
func (s *LedgerService) GenerateReport(ctx context.Context, yearID int64, kind string) (string, error) {
	year, err := s.store.GetYear(ctx, yearID)
	if err != nil {
		return "", err
	}

	var doc report.Document
	switch kind {
	case ReportJournalPoste, ReportJournalCaisse:
		journal := core.JournalPoste
		if kind == ReportJournalCaisse {
			journal = core.JournalCaisse
		}
		entries, err := s.store.ListEntries(ctx, yearID, journal)
		if err != nil {
			return "", err
		}
		doc = report.AssembleJournal(year, core.NewStatement(journal, entries))
	case ReportResultat:
		entries, err := s.store.ListEntries(ctx, yearID, "")
		if err != nil {
			return "", err
		}
		doc = report.AssembleResultat(year, core.ComputeResultat(entries))
	case ReportBudget:
		bv, err := s.BudgetView(ctx, yearID)
		if err != nil {
			return "", err
		}
		doc = report.AssembleBudget(year, bv)
	default:
		return "", fmt.Errorf("unknown report kind %q: %w", kind, core.ErrInvalidType)
	}

	path, err := s.reports.Write(doc, year.Name)
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "report generated",
		log.FieldYearID, yearID, log.FieldStem, doc.Stem, log.FieldFile, path)
	return path, nil
}

// BackupDatabase snapshots the live database into the backups
// directory and returns the snapshot path.
func (s *LedgerService) BackupDatabase(ctx context.Context) (string, error) {
	path, err := s.store.Backup(ctx, s.backupsDir)
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "database backed up", log.FieldFile, path)
	return path, nil
}

// RestoreDatabase replaces the live database with a snapshot.
func (s *LedgerService) RestoreDatabase(ctx context.Context, path string) error {
	if err := s.store.Restore(ctx, path); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "database restored", log.FieldFile, path)
	return nil
}
