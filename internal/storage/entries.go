package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AE2TML/app-compta-aetml/internal/core"
)

const entryColumns = "id, date, journal, libelle, category, type, amount_cents, year_id, attachment_path"

// ListEntries returns a year's entries in canonical chronological
// order (date ascending, id as the same-day tie-break). An empty
// journal selects both journals.
func (s *Store) ListEntries(ctx context.Context, yearID int64, journal core.Journal) ([]core.Entry, error) {
	query := "SELECT " + entryColumns + " FROM entries WHERE year_id = ?"
	args := []any{yearID}
	if journal != "" {
		query += " AND journal = ?"
		args = append(args, string(journal))
	}
	query += " ORDER BY date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// GetEntry looks an entry up by id.
func (s *Store) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, fmt.Errorf("entry %d: %w", id, core.ErrNotFound)
	}
	return e, err
}

// InsertEntry writes an entry and its cash breakdown as one
// transaction. The breakdown is only meaningful for caisse entries;
// callers pass nil otherwise.
func (s *Store) InsertEntry(ctx context.Context, e core.Entry, cash []core.CashDetail) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO entries (date, journal, libelle, category, type, amount_cents, year_id, attachment_path)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Date.Format(core.DateFormat), string(e.Journal), e.Libelle, e.Category,
			string(e.Type), toCents(e.Amount), e.YearID, nullable(e.AttachmentPath))
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert entry id: %w", err)
		}
		return replaceCashDetails(ctx, tx, id, cash)
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", id, "journal", string(e.Journal), "category", e.Category,
		"amount", e.Amount.StringFixed(2), "cash_rows", len(cash))
	return id, nil
}

// UpdateEntry rewrites an entry's fields and replaces its cash
// breakdown in one transaction.
func (s *Store) UpdateEntry(ctx context.Context, e core.Entry, cash []core.CashDetail) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE entries SET date = ?, journal = ?, libelle = ?, category = ?, type = ?, amount_cents = ?, attachment_path = ?
			 WHERE id = ?`,
			e.Date.Format(core.DateFormat), string(e.Journal), e.Libelle, e.Category, string(e.Type),
			toCents(e.Amount), nullable(e.AttachmentPath), e.ID)
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("entry %d: %w", e.ID, core.ErrNotFound)
		}
		return replaceCashDetails(ctx, tx, e.ID, cash)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Entry updated", "id", e.ID, "cash_rows", len(cash))
	return nil
}

// DeleteEntry removes an entry; its cash detail rows go with it via
// the FK cascade.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Entry deleted", "id", id)
	return nil
}

// ListCashDetails returns an entry's cash breakdown, largest
// denomination first.
func (s *Store) ListCashDetails(ctx context.Context, entryID int64) ([]core.CashDetail, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT denomination_cents, count FROM cash_details WHERE entry_id = ? ORDER BY denomination_cents DESC",
		entryID)
	if err != nil {
		return nil, fmt.Errorf("list cash details: %w", err)
	}
	defer rows.Close()

	var details []core.CashDetail
	for rows.Next() {
		var (
			denomCents int64
			count      int
		)
		if err := rows.Scan(&denomCents, &count); err != nil {
			return nil, fmt.Errorf("scan cash detail: %w", err)
		}
		details = append(details, core.CashDetail{Denomination: fromCents(denomCents), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cash details: %w", err)
	}
	return details, nil
}

// ReplaceCashDetails swaps an entry's whole breakdown (delete-all,
// re-insert) in one transaction.
func (s *Store) ReplaceCashDetails(ctx context.Context, entryID int64, details []core.CashDetail) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceCashDetails(ctx, tx, entryID, details)
	})
}

// SumEntriesByCategory returns the signed per-category entry sums for
// a year, both journals combined.
func (s *Store) SumEntriesByCategory(ctx context.Context, yearID int64) (map[string]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, SUM(amount_cents) FROM entries WHERE year_id = ? GROUP BY category", yearID)
	if err != nil {
		return nil, fmt.Errorf("sum entries by category: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums[category] = fromCents(cents)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sum entries by category: %w", err)
	}
	return sums, nil
}

func replaceCashDetails(ctx context.Context, tx *sql.Tx, entryID int64, details []core.CashDetail) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM cash_details WHERE entry_id = ?", entryID); err != nil {
		return fmt.Errorf("clear cash details: %w", err)
	}
	for _, d := range details {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO cash_details (entry_id, denomination_cents, count) VALUES (?, ?, ?)",
			entryID, toCents(d.Denomination), d.Count); err != nil {
			return fmt.Errorf("insert cash detail: %w", err)
		}
	}
	return nil
}

func scanEntry(r rowScanner) (core.Entry, error) {
	var (
		e          core.Entry
		dateStr    string
		cents      int64
		attachment sql.NullString
	)
	if err := r.Scan(&e.ID, &dateStr, &e.Journal, &e.Libelle, &e.Category, &e.Type, &cents, &e.YearID, &attachment); err != nil {
		return core.Entry{}, err
	}
	var err error
	if e.Date, err = time.Parse(core.DateFormat, dateStr); err != nil {
		return core.Entry{}, fmt.Errorf("entry %d date: %w", e.ID, err)
	}
	e.Amount = fromCents(cents)
	e.AttachmentPath = attachment.String
	return e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
