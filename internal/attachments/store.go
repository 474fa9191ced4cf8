// Package attachments stores justificatif files alongside the ledger.
// Files are copied under the attachments root, grouped per accounting
// year, and entries keep only the relative path.
package attachments

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const stampFormat = "20060102150405"

// Store copies attachment files into a per-year directory layout.
type Store struct {
	root string
	now  func() time.Time
}

func NewStore(root string) *Store {
	return &Store{root: root, now: time.Now}
}

// Save copies the file at sourcePath under <root>/<yearID>/ and returns
// the path relative to the root. The timestamp prefix keeps repeated
// uploads of the same file from colliding.
func (s *Store) Save(sourcePath string, yearID int64) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("open attachment source: %w", err)
	}
	defer src.Close()

	return s.SaveReader(src, filepath.Base(sourcePath), yearID)
}

// SaveReader writes the attachment content from r, keeping the original
// file name as suffix.
func (s *Store) SaveReader(r io.Reader, name string, yearID int64) (string, error) {
	dir := filepath.Join(s.root, strconv.FormatInt(yearID, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create attachment dir: %w", err)
	}

	// O_EXCL keeps a second upload of the same name within the same
	// second from truncating the first; collisions get a counter suffix.
	stamp := s.now().Format(stampFormat)
	var rel string
	var dst *os.File
	for i := 0; ; i++ {
		prefix := stamp
		if i > 0 {
			prefix = stamp + "-" + strconv.Itoa(i)
		}
		rel = filepath.Join(strconv.FormatInt(yearID, 10), prefix+"_"+filepath.Base(name))

		f, err := os.OpenFile(filepath.Join(s.root, rel), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			dst = f
			break
		}
		if !os.IsExist(err) {
			return "", fmt.Errorf("create attachment: %w", err)
		}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("copy attachment: %w", err)
	}
	return rel, nil
}

// Resolve turns a stored relative path back into an absolute one.
func (s *Store) Resolve(rel string) string {
	return filepath.Join(s.root, rel)
}

// Remove deletes a stored attachment. A missing file is not an error:
// the ledger row is the source of truth, the file is best effort.
func (s *Store) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	if err := os.Remove(s.Resolve(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}
