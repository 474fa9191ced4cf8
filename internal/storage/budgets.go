package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/AE2TML/app-compta-aetml/internal/core"
)

const upsertBudgetSQL = `INSERT INTO budgets (year_id, category, amount_cents) VALUES (?, ?, ?)
ON CONFLICT (year_id, category) DO UPDATE SET amount_cents = excluded.amount_cents`

// UpsertBudget writes one category's budgeted figure, overwriting any
// existing row for the (year, category) pair.
func (s *Store) UpsertBudget(ctx context.Context, yearID int64, b core.Budget) error {
	if _, err := s.db.ExecContext(ctx, upsertBudgetSQL, yearID, b.Category, toCents(b.Amount)); err != nil {
		return fmt.Errorf("upsert budget %q: %w", b.Category, err)
	}
	return nil
}

// SaveBudgets upserts a whole set of budget rows in one transaction,
// so a failure partway leaves the previous figures intact.
func (s *Store) SaveBudgets(ctx context.Context, yearID int64, budgets []core.Budget) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, b := range budgets {
			if _, err := tx.ExecContext(ctx, upsertBudgetSQL, yearID, b.Category, toCents(b.Amount)); err != nil {
				return fmt.Errorf("upsert budget %q: %w", b.Category, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Budget saved", "year_id", yearID, "categories", len(budgets))
	return nil
}

// ListBudgets returns a year's budget rows.
func (s *Store) ListBudgets(ctx context.Context, yearID int64) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, amount_cents FROM budgets WHERE year_id = ?", yearID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var (
			b     core.Budget
			cents int64
		)
		if err := rows.Scan(&b.Category, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Amount = fromCents(cents)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}
