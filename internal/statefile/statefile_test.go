package statefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	in := map[string]string{"m1": "a.md", "m2": "b.md"}
	if err := WriteJSON(path, in); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	out := map[string]string{}
	if err := ReadJSON(path, &out); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if len(out) != 2 || out["m1"] != "a.md" || out["m2"] != "b.md" {
		t.Errorf("round-trip mismatch: got %v", out)
	}
}

func TestReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	var out map[string]string
	err := ReadJSON(path, &out)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestReadMissingDirectory(t *testing.T) {
	// The enclosing directory does not exist either; the sidecar lock must
	// not turn that into anything other than a not-exist error.
	path := filepath.Join(t.TempDir(), "state", "deep", "absent.json")

	var out map[string]string
	err := ReadJSON(path, &out)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestReadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out map[string]string
	err := ReadJSON(path, &out)
	if !errors.Is(err, ErrCorrupted) {
		t.Errorf("expected ErrCorrupted, got %v", err)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	if err := WriteJSON(path, map[string]int{"n": 1}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestOverwriteReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	if err := WriteJSON(path, map[string]string{"k": "old"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(path, map[string]string{"k": "new"}); err != nil {
		t.Fatal(err)
	}

	out := map[string]string{}
	if err := ReadJSON(path, &out); err != nil {
		t.Fatal(err)
	}
	if out["k"] != "new" {
		t.Errorf("expected overwritten value, got %q", out["k"])
	}
}
