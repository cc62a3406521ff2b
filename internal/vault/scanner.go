package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNotFound indicates the vault root does not exist or is not a
// directory. This is fatal to the caller and never retried internally.
var ErrNotFound = errors.New("vault not found")

// hiddenPrefix marks entries excluded from the taxonomy at every level.
const hiddenPrefix = "."

// Scanner discovers a vault's three-level structure and keeps it cached
// with a TTL. Depth is capped at exactly three levels: domain, section,
// subject.
type Scanner struct {
	root    string
	ttl     time.Duration
	exclude []string
	cache   Cache
}

// NewScanner creates a scanner for the vault rooted at root. The cache may
// not be nil; use NewMemoryCache for uncached operation.
func NewScanner(root string, ttl time.Duration, cache Cache, exclude []string) *Scanner {
	return &Scanner{
		root:    root,
		ttl:     ttl,
		exclude: exclude,
		cache:   cache,
	}
}

// Root returns the vault root path.
func (s *Scanner) Root() string {
	return s.root
}

// GetHierarchy returns the vault hierarchy, consulting the cache unless
// forceRefresh is set. A successful walk overwrites the cache.
func (s *Scanner) GetHierarchy(forceRefresh bool) (Hierarchy, error) {
	if !forceRefresh {
		if entry := s.cache.Load(); entry != nil {
			return entry.Hierarchy, nil
		}
	}

	h, err := s.Scan()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Save(h, s.ttl); err != nil {
		// The hierarchy itself is good; a cache write failure only costs
		// a rescan next time.
		log.Printf("vault: failed to save cache: %v", err)
	}
	return h, nil
}

// Rescan forces a fresh walk, bypassing and updating the cache. It is the
// sole manual-refresh entry point for external callers.
func (s *Scanner) Rescan() (Hierarchy, error) {
	return s.GetHierarchy(true)
}

// Vocabulary returns the flattened vocabulary for classification prompts,
// using the cache when valid.
func (s *Scanner) Vocabulary() (Vocabulary, error) {
	h, err := s.GetHierarchy(false)
	if err != nil {
		return Vocabulary{}, err
	}
	return h.Vocabulary(), nil
}

// Scan walks the vault and returns its three-level structure without
// touching the cache.
func (s *Scanner) Scan() (Hierarchy, error) {
	info, err := os.Stat(s.root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.root)
	}

	h := Hierarchy{}

	for _, domain := range s.listDirs(s.root) {
		byDomain := map[string][]string{}

		domainPath := filepath.Join(s.root, domain)
		for _, section := range s.listDirs(domainPath) {
			subjects := s.listDirs(filepath.Join(domainPath, section))
			sort.Strings(subjects)
			byDomain[section] = subjects
		}

		h[domain] = byDomain
	}

	return h, nil
}

// listDirs returns the non-hidden, non-symlink, non-excluded directory
// names directly under path. A permission error logs a warning and yields
// an empty list so a single unreadable subtree cannot abort the whole scan.
func (s *Scanner) listDirs(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		log.Printf("vault: cannot read %s: %v", path, err)
		return nil
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, hiddenPrefix) {
			continue
		}
		// Symlinks are skipped to avoid cycles and escapes from the root.
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if !entry.IsDir() {
			continue
		}
		if s.excluded(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// excluded reports whether a directory name matches any configured
// exclude glob.
func (s *Scanner) excluded(name string) bool {
	for _, pattern := range s.exclude {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}
