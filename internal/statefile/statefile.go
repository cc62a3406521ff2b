// Package statefile provides locked, atomic JSON file persistence.
//
// Readers take a shared advisory lock, writers an exclusive one, and every
// write lands via temp-file-then-rename so a concurrent reader never
// observes a partially written document. Locks are held on a stable sidecar
// file because the data file's inode is replaced on every write.
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrCorrupted indicates a state file exists but does not contain valid JSON.
// Callers decide whether this is fatal (processing state) or a cache miss.
var ErrCorrupted = errors.New("state file corrupted")

// ReadJSON reads the JSON document at path into v while holding a shared
// lock. A missing file returns an error satisfying
// errors.Is(err, os.ErrNotExist); invalid JSON returns ErrCorrupted.
func ReadJSON(path string, v any) error {
	// The sidecar lock file needs a directory to live in even when the
	// data file has never been written.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory %s: %w", dir, err)
	}

	lock := flock.New(lockPath(path))
	if err := lock.RLock(); err != nil {
		return fmt.Errorf("acquiring read lock for %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupted, path, err)
	}
	return nil
}

// WriteJSON writes v as indented JSON to path while holding an exclusive
// lock. The document is written to a temporary file in the same directory
// and renamed into place.
func WriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory %s: %w", dir, err)
	}

	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquiring write lock for %s: %w", path, err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming %s into place: %w", tmpName, err)
	}
	return nil
}

func lockPath(path string) string {
	return path + ".lock"
}
