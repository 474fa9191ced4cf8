package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AE2TML/app-compta-aetml/internal/core"
)

// ListYears returns all accounting years, most recent start date first.
func (s *Store) ListYears(ctx context.Context) ([]core.AccountingYear, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, start_date, end_date FROM accounting_years ORDER BY start_date DESC")
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	var years []core.AccountingYear
	for rows.Next() {
		y, err := scanYear(rows)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	return years, nil
}

// GetYear looks a year up by id.
func (s *Store) GetYear(ctx context.Context, id int64) (core.AccountingYear, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, start_date, end_date FROM accounting_years WHERE id = ?", id)
	y, err := scanYear(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.AccountingYear{}, fmt.Errorf("year %d: %w", id, core.ErrNotFound)
	}
	return y, err
}

// InsertYear creates a new accounting year. The name is unique across
// all years; a clash reports core.ErrDuplicateName.
func (s *Store) InsertYear(ctx context.Context, y core.AccountingYear) (core.AccountingYear, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO accounting_years (name, start_date, end_date) VALUES (?, ?, ?)",
		y.Name, y.Start.Format(core.DateFormat), y.End.Format(core.DateFormat))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.AccountingYear{}, fmt.Errorf("year %q: %w", y.Name, core.ErrDuplicateName)
		}
		return core.AccountingYear{}, fmt.Errorf("insert year: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.AccountingYear{}, fmt.Errorf("insert year id: %w", err)
	}
	y.ID = id

	slog.InfoContext(ctx, "Accounting year created", "id", y.ID, "name", y.Name)
	return y, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanYear(r rowScanner) (core.AccountingYear, error) {
	var (
		y          core.AccountingYear
		start, end string
	)
	if err := r.Scan(&y.ID, &y.Name, &start, &end); err != nil {
		return core.AccountingYear{}, err
	}
	var err error
	if y.Start, err = time.Parse(core.DateFormat, start); err != nil {
		return core.AccountingYear{}, fmt.Errorf("year %d start date: %w", y.ID, err)
	}
	if y.End, err = time.Parse(core.DateFormat, end); err != nil {
		return core.AccountingYear{}, fmt.Errorf("year %d end date: %w", y.ID, err)
	}
	return y, nil
}
