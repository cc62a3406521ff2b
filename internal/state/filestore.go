package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parakeep/parakeep/internal/statefile"
)

const (
	processedFile = "processed_messages.json"
	artifactsFile = "message_artifacts.json"
	runsFile      = "run_log.json"

	// maxRunRecords caps the run log so it cannot grow without bound.
	maxRunRecords = 200
)

// FileStore keeps each map in its own JSON document under a state
// directory, using statefile for locking and atomic replacement.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first use; reads against a fresh directory answer from empty maps.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readMap loads a JSON map, treating a missing file as empty. Corruption
// propagates.
func readMap[V any](path string) (map[string]V, error) {
	m := map[string]V{}
	if err := statefile.ReadJSON(path, &m); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, err
	}
	return m, nil
}

func (s *FileStore) IsProcessed(id string) (bool, error) {
	processed, err := readMap[time.Time](s.path(processedFile))
	if err != nil {
		return false, fmt.Errorf("reading processed set: %w", err)
	}
	_, ok := processed[id]
	return ok, nil
}

func (s *FileStore) MarkProcessed(id string) error {
	processed, err := readMap[time.Time](s.path(processedFile))
	if err != nil {
		return fmt.Errorf("reading processed set: %w", err)
	}
	processed[id] = time.Now()
	if err := statefile.WriteJSON(s.path(processedFile), processed); err != nil {
		return fmt.Errorf("writing processed set: %w", err)
	}
	return nil
}

func (s *FileStore) Artifact(id string) (string, bool, error) {
	artifacts, err := readMap[string](s.path(artifactsFile))
	if err != nil {
		return "", false, fmt.Errorf("reading artifact map: %w", err)
	}
	path, ok := artifacts[id]
	return path, ok, nil
}

func (s *FileStore) SetArtifact(id, path string) error {
	artifacts, err := readMap[string](s.path(artifactsFile))
	if err != nil {
		return fmt.Errorf("reading artifact map: %w", err)
	}
	artifacts[id] = path
	if err := statefile.WriteJSON(s.path(artifactsFile), artifacts); err != nil {
		return fmt.Errorf("writing artifact map: %w", err)
	}
	return nil
}

func (s *FileStore) RemoveArtifact(id string) error {
	artifacts, err := readMap[string](s.path(artifactsFile))
	if err != nil {
		return fmt.Errorf("reading artifact map: %w", err)
	}
	if _, ok := artifacts[id]; !ok {
		return nil
	}
	delete(artifacts, id)
	if err := statefile.WriteJSON(s.path(artifactsFile), artifacts); err != nil {
		return fmt.Errorf("writing artifact map: %w", err)
	}
	return nil
}

func (s *FileStore) Cleanup(olderThan time.Duration) (int, error) {
	processed, err := readMap[time.Time](s.path(processedFile))
	if err != nil {
		return 0, fmt.Errorf("reading processed set: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for id, at := range processed {
		// Entries at or before the cutoff go; strictly newer ones stay.
		if !at.After(cutoff) {
			delete(processed, id)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}
	if err := statefile.WriteJSON(s.path(processedFile), processed); err != nil {
		return 0, fmt.Errorf("writing processed set: %w", err)
	}
	return removed, nil
}

func (s *FileStore) RecordRun(outcome RunOutcome, detail string) error {
	var runs []RunRecord
	if err := statefile.ReadJSON(s.path(runsFile), &runs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading run log: %w", err)
	}

	runs = append(runs, RunRecord{
		Timestamp: time.Now(),
		Outcome:   outcome,
		Detail:    detail,
	})
	if len(runs) > maxRunRecords {
		runs = runs[len(runs)-maxRunRecords:]
	}

	if err := statefile.WriteJSON(s.path(runsFile), runs); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	return nil
}

func (s *FileStore) Runs(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	if err := statefile.ReadJSON(s.path(runsFile), &runs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run log: %w", err)
	}

	// Stored oldest first; return newest first.
	out := make([]RunRecord, 0, len(runs))
	for i := len(runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, runs[i])
	}
	return out, nil
}

func (s *FileStore) Close() error {
	return nil
}
