package state

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parakeep/parakeep/internal/statefile"
)

// eachBackend runs the test once per backend. The reopen function simulates
// a process restart against the same storage.
func eachBackend(t *testing.T, fn func(t *testing.T, s Store, reopen func() Store)) {
	t.Helper()

	t.Run("json", func(t *testing.T) {
		dir := t.TempDir()
		fn(t, NewFileStore(dir), func() Store { return NewFileStore(dir) })
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "parakeep.db")
		s, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite failed: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		fn(t, s, func() Store {
			s.Close()
			reopened, err := OpenSQLite(path)
			if err != nil {
				t.Fatalf("reopening sqlite store: %v", err)
			}
			t.Cleanup(func() { reopened.Close() })
			return reopened
		})
	})
}

func TestProcessedLifecycle(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store, reopen func() Store) {
		ok, err := s.IsProcessed("m1")
		if err != nil {
			t.Fatalf("IsProcessed failed: %v", err)
		}
		if ok {
			t.Error("message processed before any MarkProcessed")
		}

		if err := s.MarkProcessed("m1"); err != nil {
			t.Fatalf("MarkProcessed failed: %v", err)
		}

		ok, err = s.IsProcessed("m1")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("message not processed immediately after MarkProcessed")
		}

		// Must survive a restart.
		s2 := reopen()
		ok, err = s2.IsProcessed("m1")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("processed mark lost across restart")
		}
	})
}

func TestArtifactReplacement(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store, reopen func() Store) {
		if _, ok, err := s.Artifact("m1"); err != nil || ok {
			t.Fatalf("unexpected artifact before set: ok=%v err=%v", ok, err)
		}

		if err := s.SetArtifact("m1", "a.md"); err != nil {
			t.Fatal(err)
		}
		if err := s.SetArtifact("m1", "b.md"); err != nil {
			t.Fatal(err)
		}

		path, ok, err := s.Artifact("m1")
		if err != nil {
			t.Fatal(err)
		}
		if !ok || path != "b.md" {
			t.Errorf("Artifact = %q, %v; want b.md (replacement, not accumulation)", path, ok)
		}

		if err := s.RemoveArtifact("m1"); err != nil {
			t.Fatal(err)
		}
		if _, ok, _ := s.Artifact("m1"); ok {
			t.Error("artifact still present after removal")
		}

		// Removing a missing mapping is not an error.
		if err := s.RemoveArtifact("never-set"); err != nil {
			t.Errorf("RemoveArtifact of absent id failed: %v", err)
		}
	})
}

func TestRunLog(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store, reopen func() Store) {
		if runs, err := s.Runs(10); err != nil || len(runs) != 0 {
			t.Fatalf("expected empty run log, got %v (%v)", runs, err)
		}

		if err := s.RecordRun(RunFailure, "inference unavailable"); err != nil {
			t.Fatal(err)
		}
		if err := s.RecordRun(RunSuccess, "processed 3"); err != nil {
			t.Fatal(err)
		}

		runs, err := s.Runs(10)
		if err != nil {
			t.Fatal(err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].Outcome != RunSuccess {
			t.Errorf("newest-first ordering violated: %v", runs)
		}
		if runs[1].Detail != "inference unavailable" {
			t.Errorf("detail lost: %v", runs[1])
		}
	})
}

func TestHealthy(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store, reopen func() Store) {
		ok, msg := Healthy(s, time.Hour)
		if ok {
			t.Errorf("empty store reported healthy: %s", msg)
		}

		if err := s.RecordRun(RunSuccess, ""); err != nil {
			t.Fatal(err)
		}
		ok, _ = Healthy(s, time.Hour)
		if !ok {
			t.Error("fresh success not reported healthy")
		}

		// A failure after a recent success does not flip health; the age of
		// the last success is what matters.
		if err := s.RecordRun(RunFailure, "transient"); err != nil {
			t.Fatal(err)
		}
		ok, _ = Healthy(s, time.Hour)
		if !ok {
			t.Error("recent success should keep the store healthy despite a later failure")
		}
	})
}

// seedProcessedAt injects a processed entry with a controlled timestamp.
func seedProcessedAt(t *testing.T, s Store, id string, at time.Time) {
	t.Helper()
	switch st := s.(type) {
	case *FileStore:
		processed, err := readMap[time.Time](st.path(processedFile))
		if err != nil {
			t.Fatal(err)
		}
		processed[id] = at
		if err := statefile.WriteJSON(st.path(processedFile), processed); err != nil {
			t.Fatal(err)
		}
	case *SQLiteStore:
		_, err := st.db.Exec(
			`INSERT INTO processed_messages (id, processed_at) VALUES (?, ?)
			 ON CONFLICT(id) DO UPDATE SET processed_at = excluded.processed_at`,
			id, at.UnixNano(),
		)
		if err != nil {
			t.Fatal(err)
		}
	default:
		t.Fatalf("unknown store type %T", s)
	}
}

func TestCleanupBoundary(t *testing.T) {
	const retention = 30 * 24 * time.Hour

	eachBackend(t, func(t *testing.T, s Store, reopen func() Store) {
		now := time.Now()
		seedProcessedAt(t, s, "past", now.Add(-retention-time.Second))   // 30d1s ago
		seedProcessedAt(t, s, "boundary", now.Add(-retention))           // exactly 30d ago
		seedProcessedAt(t, s, "recent", now.Add(-retention+time.Hour))   // 29d23h ago

		removed, err := s.Cleanup(retention)
		if err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
		if removed != 2 {
			t.Errorf("removed = %d, want 2", removed)
		}

		for id, want := range map[string]bool{
			"past":     false,
			"boundary": false, // at the cutoff: removed
			"recent":   true,
		} {
			ok, err := s.IsProcessed(id)
			if err != nil {
				t.Fatal(err)
			}
			if ok != want {
				t.Errorf("after cleanup, IsProcessed(%q) = %v, want %v", id, ok, want)
			}
		}
	})
}

func TestFileStore_FreshDirectoryReadsCleanly(t *testing.T) {
	// Nothing has created the state directory yet; the first command a user
	// runs may well be a read (status, fix).
	dir := filepath.Join(t.TempDir(), "state", "parakeep")
	s := NewFileStore(dir)

	ok, err := s.IsProcessed("m1")
	if err != nil {
		t.Fatalf("IsProcessed on fresh directory failed: %v", err)
	}
	if ok {
		t.Error("empty store reported a processed message")
	}

	if _, ok, err := s.Artifact("m1"); err != nil || ok {
		t.Errorf("Artifact on fresh directory: ok=%v err=%v, want absent, nil", ok, err)
	}

	runs, err := s.Runs(5)
	if err != nil {
		t.Fatalf("Runs on fresh directory failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty run log, got %v", runs)
	}
}

func TestFileStore_CorruptedFileIsLoud(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, processedFile), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(dir)
	if _, err := s.IsProcessed("m1"); !errors.Is(err, ErrCorrupted) {
		t.Errorf("expected ErrCorrupted, got %v", err)
	}
	if err := s.MarkProcessed("m1"); !errors.Is(err, ErrCorrupted) {
		t.Errorf("expected ErrCorrupted on write path too, got %v", err)
	}
}

func TestOpenBackendSelection(t *testing.T) {
	dir := t.TempDir()

	if s, err := Open("", dir); err != nil {
		t.Errorf("default backend failed: %v", err)
	} else if _, ok := s.(*FileStore); !ok {
		t.Errorf("default backend is %T, want *FileStore", s)
	}

	s, err := Open("sqlite", dir)
	if err != nil {
		t.Fatalf("sqlite backend failed: %v", err)
	}
	s.Close()

	if _, err := Open("redis", dir); err == nil {
		t.Error("unknown backend should fail")
	}
}
