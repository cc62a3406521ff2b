package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// archiveDir is where acknowledged capture files are moved, relative to the
// inbox directory.
const archiveDir = "processed"

// DirSource reads captures from plain files dropped into a directory, one
// capture per file. The filename is the capture identifier, which keeps
// identifiers stable across fetches for idempotency.
type DirSource struct {
	dir string
}

// NewDirSource creates a DirSource over dir. The directory is created if
// missing so a fresh install has somewhere to drop captures.
func NewDirSource(dir string) (*DirSource, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating inbox directory: %w", err)
	}
	return &DirSource{dir: dir}, nil
}

// Fetch returns one Message per readable file in the inbox directory, oldest
// modification time first. Hidden files and subdirectories are skipped.
func (s *DirSource) Fetch(ctx context.Context) ([]Message, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading inbox directory: %w", err)
	}

	var messages []Message
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		messages = append(messages, Message{
			ID:        entry.Name(),
			Text:      strings.TrimSpace(string(content)),
			Timestamp: info.ModTime(),
		})
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

// Ack moves the capture file into the archive subdirectory. A name collision
// in the archive gets a random suffix instead of overwriting an earlier
// capture with the same name.
func (s *DirSource) Ack(ctx context.Context, id string) error {
	src := filepath.Join(s.dir, id)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	archive := filepath.Join(s.dir, archiveDir)
	if err := os.MkdirAll(archive, 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	dest := filepath.Join(archive, id)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(id)
		stem := strings.TrimSuffix(id, ext)
		dest = filepath.Join(archive, fmt.Sprintf("%s-%s%s", stem, uuid.NewString(), ext))
	}

	if err := os.Rename(src, dest); err != nil {
		return fmt.Errorf("archiving capture %s: %w", id, err)
	}
	return nil
}
