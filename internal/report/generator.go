package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Generator writes rendered reports under a per-year directory named
// after the exercice.
type Generator struct {
	root string
	now  func() time.Time
}

func NewGenerator(root string) *Generator {
	return &Generator{root: root, now: time.Now}
}

// sanitizeYearName keeps year names usable as directory names. Path
// separators are common in exercice names like "2024/2025".
func sanitizeYearName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	return strings.ReplaceAll(name, `\`, "-")
}

// Write renders the document and stores it as
// <root>/<year>/<stem>_<timestamp>.pdf, returning the full path.
func (g *Generator) Write(doc Document, yearName string) (string, error) {
	dir := filepath.Join(g.root, sanitizeYearName(yearName))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.pdf", doc.Stem, g.now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := RenderPDF(doc, f); err != nil {
		os.Remove(path)
		return "", err
	}
	slog.Info("report written", "stem", doc.Stem, "path", path)
	return path, nil
}
