package vault

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/parakeep/parakeep/internal/statefile"
)

func testHierarchy() Hierarchy {
	return Hierarchy{
		"Personal": {"1_Projects": {"apps"}},
	}
}

func TestFileCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault_cache.json")
	c := NewFileCache(path)

	if err := c.Save(testHierarchy(), time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entry := c.Load()
	if entry == nil {
		t.Fatal("Load returned nil for a fresh entry")
	}
	if !reflect.DeepEqual(entry.Hierarchy, testHierarchy()) {
		t.Errorf("hierarchy mismatch: got %v", entry.Hierarchy)
	}
	if entry.TTL() != time.Hour {
		t.Errorf("stored TTL = %v, want %v", entry.TTL(), time.Hour)
	}
}

func TestFileCache_MissingIsMiss(t *testing.T) {
	c := NewFileCache(filepath.Join(t.TempDir(), "absent.json"))
	if entry := c.Load(); entry != nil {
		t.Errorf("expected miss for missing file, got %v", entry)
	}
}

func TestFileCache_CorruptedIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault_cache.json")
	if err := os.WriteFile(path, []byte("{{{"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewFileCache(path)
	if entry := c.Load(); entry != nil {
		t.Errorf("expected miss for corrupted file, got %v", entry)
	}
}

func TestFileCache_ExpiredIsMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault_cache.json")

	// Write an entry that expired an hour ago.
	stale := Entry{
		Version:    cacheVersion,
		Hierarchy:  testHierarchy(),
		ScannedAt:  time.Now().Add(-2 * time.Hour),
		TTLSeconds: 3600,
	}
	if err := statefile.WriteJSON(path, &stale); err != nil {
		t.Fatal(err)
	}

	c := NewFileCache(path)
	if entry := c.Load(); entry != nil {
		t.Errorf("expected miss for expired entry, got %v", entry)
	}
}

func TestFileCache_ExpiryUsesStoredTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault_cache.json")

	// Saved 30 minutes ago with a 2h TTL: still valid, even if the current
	// configured default were shorter.
	entry := Entry{
		Version:    cacheVersion,
		Hierarchy:  testHierarchy(),
		ScannedAt:  time.Now().Add(-30 * time.Minute),
		TTLSeconds: 7200,
	}
	if err := statefile.WriteJSON(path, &entry); err != nil {
		t.Fatal(err)
	}

	if got := NewFileCache(path).Load(); got == nil {
		t.Error("entry within its stored TTL treated as expired")
	}
}

func TestMemoryCache_LoadIsolatesHierarchy(t *testing.T) {
	c := NewMemoryCache()
	if err := c.Save(testHierarchy(), time.Hour); err != nil {
		t.Fatal(err)
	}

	first := c.Load()
	if first == nil {
		t.Fatal("Load returned nil for a fresh entry")
	}
	first.Hierarchy["Personal"]["1_Projects"][0] = "mutated"
	first.Hierarchy["Intruder"] = map[string][]string{}

	second := c.Load()
	if !reflect.DeepEqual(second.Hierarchy, testHierarchy()) {
		t.Errorf("caller mutation reached the cache: %v", second.Hierarchy)
	}
}

func TestEntry_Valid(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"fresh", Entry{Hierarchy: testHierarchy(), ScannedAt: now, TTLSeconds: 60}, true},
		{"at boundary", Entry{Hierarchy: testHierarchy(), ScannedAt: now.Add(-60 * time.Second), TTLSeconds: 60}, true},
		{"past boundary", Entry{Hierarchy: testHierarchy(), ScannedAt: now.Add(-61 * time.Second), TTLSeconds: 60}, false},
		{"nil hierarchy", Entry{ScannedAt: now, TTLSeconds: 60}, false},
		{"zero scanned_at", Entry{Hierarchy: testHierarchy(), TTLSeconds: 60}, false},
		{"zero ttl", Entry{Hierarchy: testHierarchy(), ScannedAt: now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Valid(now); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
