package note

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parakeep/parakeep/internal/classifier"
)

// Writer creates classified notes under a vault root at
// domain/section/subject/<timestamp>-<slug>.md.
type Writer struct {
	root string
	now  func() time.Time
}

// NewWriter creates a Writer for the given vault root.
func NewWriter(root string) *Writer {
	return &Writer{root: root, now: time.Now}
}

// Write files the capture into the vault folder named by the classification
// and returns the created path. The target folder is created if the
// classification points at a subject that does not exist yet, such as the
// catch-all.
func (w *Writer) Write(result *classifier.Result, text string) (string, error) {
	now := w.now()

	folder := filepath.Join(w.root, result.Domain, result.Section, result.Subject)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("creating note folder: %w", err)
	}

	content, err := render(newFrontMatter(result, now), text)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.md", now.Format("20060102-150405"), Slug(text))
	path := filepath.Join(folder, name)
	path = resolveCollision(path, now)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}
	return path, nil
}

// resolveCollision returns path unchanged when free, otherwise a variant with
// a nanosecond suffix. Collisions only happen for two captures with the same
// slug within one second.
func resolveCollision(path string, now time.Time) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", path[:len(path)-len(ext)], now.Nanosecond(), ext)
}
