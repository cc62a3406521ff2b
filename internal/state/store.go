// Package state persists processing state between runs: which captures have
// been handled, which note each capture produced, and how recent runs went.
//
// The idempotency pair (IsProcessed then MarkProcessed) is deliberately not
// atomic as a pair. Each individual read and write is internally consistent,
// which is sufficient for the intended single-process, single-writer
// workload; callers needing strict exactly-once semantics under concurrent
// invocation must add their own coordination.
package state

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/parakeep/parakeep/internal/statefile"
)

// ErrCorrupted indicates a state file exists but cannot be parsed. Unlike
// the vocabulary cache, corrupted processing state surfaces loudly: silently
// starting over would cause duplicate processing.
var ErrCorrupted = statefile.ErrCorrupted

// RunOutcome classifies a processing cycle for health reporting.
type RunOutcome string

const (
	RunSuccess RunOutcome = "success"
	RunFailure RunOutcome = "failure"
)

// RunRecord is one entry in the run-health log.
type RunRecord struct {
	Timestamp time.Time  `json:"timestamp"`
	Outcome   RunOutcome `json:"outcome"`
	Detail    string     `json:"detail,omitempty"`
}

// Store is the persistence contract for processing state. Implementations
// must guarantee that no reader observes a partial write and no two writers
// interleave; they are free to use file locks or a transactional database.
type Store interface {
	// IsProcessed reports whether the message has reached a terminal
	// outcome before.
	IsProcessed(id string) (bool, error)
	// MarkProcessed records the message as handled, stamped with now.
	MarkProcessed(id string) error
	// Artifact returns the note path recorded for the message, if any.
	Artifact(id string) (string, bool, error)
	// SetArtifact records the note path for a message. A second call for
	// the same id replaces the previous mapping.
	SetArtifact(id, path string) error
	// RemoveArtifact drops the mapping for a message, e.g. after its note
	// was deleted.
	RemoveArtifact(id string) error
	// Cleanup removes processed-set entries whose timestamp is at or
	// before now-olderThan and returns how many were removed. An entry
	// exactly at the cutoff is removed.
	Cleanup(olderThan time.Duration) (int, error)
	// RecordRun appends an entry to the run-health log.
	RecordRun(outcome RunOutcome, detail string) error
	// Runs returns up to limit log entries, newest first.
	Runs(limit int) ([]RunRecord, error)
	// Close releases any underlying resources.
	Close() error
}

// Open creates a store for the given backend in dir. Backend "" or "json"
// selects JSON files; "sqlite" selects a single database file.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case "", "json":
		return NewFileStore(dir), nil
	case "sqlite":
		return OpenSQLite(filepath.Join(dir, "parakeep.db"))
	default:
		return nil, fmt.Errorf("unknown state backend %q", backend)
	}
}

// Healthy reports whether the store has seen a successful run within
// maxAge, with a human-readable explanation either way.
func Healthy(s Store, maxAge time.Duration) (bool, string) {
	runs, err := s.Runs(50)
	if err != nil {
		return false, fmt.Sprintf("cannot read run log: %v", err)
	}
	if len(runs) == 0 {
		return false, "no runs recorded yet"
	}

	for _, r := range runs {
		if r.Outcome != RunSuccess {
			continue
		}
		age := time.Since(r.Timestamp)
		if age > maxAge {
			return false, fmt.Sprintf("last success was %.0f minutes ago", age.Minutes())
		}
		return true, fmt.Sprintf("healthy, last success %.0f minutes ago", age.Minutes())
	}
	return false, "no successful runs recorded"
}
