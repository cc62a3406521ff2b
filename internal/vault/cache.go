package vault

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/parakeep/parakeep/internal/statefile"
)

// cacheVersion is bumped when the persisted entry layout changes.
const cacheVersion = 1

// Entry wraps a scanned hierarchy with the time it was scanned and the TTL
// in force at save time. Expiry always uses the stored TTL, so a later run
// with a different configured TTL does not retroactively invalidate or
// extend existing entries.
type Entry struct {
	Version    int       `json:"version"`
	Hierarchy  Hierarchy `json:"hierarchy"`
	ScannedAt  time.Time `json:"scanned_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
}

// TTL returns the entry's stored time-to-live.
func (e *Entry) TTL() time.Duration {
	return time.Duration(e.TTLSeconds) * time.Second
}

// Valid reports whether the entry is still usable at the given instant.
func (e *Entry) Valid(now time.Time) bool {
	if e.Hierarchy == nil || e.ScannedAt.IsZero() || e.TTLSeconds <= 0 {
		return false
	}
	return now.Sub(e.ScannedAt) <= e.TTL()
}

// Cache persists a scanned hierarchy between runs. Load returns nil on any
// miss — absent, expired, or unreadable — and never returns an error:
// cache corruption degrades to a rescan, not a failure.
type Cache interface {
	Load() *Entry
	Save(h Hierarchy, ttl time.Duration) error
}

// FileCache stores the entry as a JSON document, written atomically.
type FileCache struct {
	path string
}

// NewFileCache creates a cache backed by the given file path.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Load reads the cached entry, returning nil if it is missing, corrupted,
// or expired.
func (c *FileCache) Load() *Entry {
	var e Entry
	if err := statefile.ReadJSON(c.path, &e); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("vault: ignoring unreadable cache %s: %v", c.path, err)
		}
		return nil
	}
	if !e.Valid(time.Now()) {
		return nil
	}
	return &e
}

// Save overwrites the cache with a fresh entry stamped with the current
// time and the given TTL.
func (c *FileCache) Save(h Hierarchy, ttl time.Duration) error {
	e := Entry{
		Version:    cacheVersion,
		Hierarchy:  h,
		ScannedAt:  time.Now(),
		TTLSeconds: int64(ttl / time.Second),
	}
	return statefile.WriteJSON(c.path, &e)
}

// MemoryCache is an in-process Cache, used in tests and wherever persistence
// across runs is not wanted.
type MemoryCache struct {
	entry *Entry
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Load returns the cached entry with an isolated hierarchy copy, so caller
// mutations cannot reach back into the cache. FileCache gets the same
// isolation for free by re-unmarshalling on every load.
func (c *MemoryCache) Load() *Entry {
	if c.entry == nil || !c.entry.Valid(time.Now()) {
		return nil
	}
	out := *c.entry
	out.Hierarchy = c.entry.Hierarchy.Clone()
	return &out
}

func (c *MemoryCache) Save(h Hierarchy, ttl time.Duration) error {
	c.entry = &Entry{
		Version:    cacheVersion,
		Hierarchy:  h,
		ScannedAt:  time.Now(),
		TTLSeconds: int64(ttl / time.Second),
	}
	return nil
}
