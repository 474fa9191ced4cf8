package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Backup writes a consistent snapshot of the database into dir, named
// backup_<YYYYMMDD_HHMMSS>.db, and returns its path. VACUUM INTO gives
// a coherent copy without closing the live connection.
func (s *Store) Backup(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	path := filepath.Join(dir, "backup_"+time.Now().Format("20060102_150405")+".db")

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return "", fmt.Errorf("vacuum into backup: %w", err)
	}

	slog.InfoContext(ctx, "Database backup created", "path", path)
	return path, nil
}

// Restore replaces the live database with the backup file at path.
// The connection is closed, the file swapped, and the store reopened
// (running any pending migrations on the restored data).
func (s *Store) Restore(ctx context.Context, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer src.Close()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	dst, err := os.Create(s.dbPath)
	if err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("flush restored database: %w", err)
	}

	reopened, err := Open(s.dbPath)
	if err != nil {
		return fmt.Errorf("reopen restored database: %w", err)
	}
	s.db = reopened.db

	slog.InfoContext(ctx, "Database restored", "from", path)
	return nil
}
