package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"meal-planner/internal/planner"
	"meal-planner/internal/shopping"
)

// ListStateStore provides a file-based storage for list-state overlays, one
// JSON document per week.
type ListStateStore struct {
	basePath string
	mu       sync.Mutex
}

// NewListStateStore creates a new ListStateStore and ensures the base directory exists.
func NewListStateStore(basePath string) (*ListStateStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &ListStateStore{basePath: basePath}, nil
}

// getWeekPath returns the full path of the document for a week.
func (s *ListStateStore) getWeekPath(start time.Time) string {
	return filepath.Join(s.basePath, fmt.Sprintf("week_%s.json", planner.FormatDate(start)))
}

// GetOrCreate loads the state of a week, or returns a new unsaved one.
func (s *ListStateStore) GetOrCreate(_ context.Context, start time.Time) (*shopping.ListState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(start)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return shopping.NewListState(start), nil
	}
	return state, nil
}

// Save writes the state if the stored version still matches the loaded one.
func (s *ListStateStore) Save(_ context.Context, state *shopping.ListState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(state.StartDate)
	if err != nil {
		return err
	}
	var storedVersion int64
	if current != nil {
		storedVersion = current.Version
	}
	if storedVersion != state.Version {
		return shopping.ErrConflict
	}

	next := state.Clone()
	next.Version = state.Version + 1

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal list state: %w", err)
	}
	if err := writeFileAtomic(s.getWeekPath(state.StartDate), data, 0644); err != nil {
		return fmt.Errorf("failed to write list state file: %w", err)
	}

	state.Version = next.Version
	return nil
}

// Exists checks if a state document exists for the week.
func (s *ListStateStore) Exists(start time.Time) bool {
	_, err := os.Stat(s.getWeekPath(start))
	return !os.IsNotExist(err)
}

// load returns nil, nil when the week has no document yet.
func (s *ListStateStore) load(start time.Time) (*shopping.ListState, error) {
	data, err := os.ReadFile(s.getWeekPath(start))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read list state file: %w", err)
	}

	var state shopping.ListState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list state: %w", err)
	}
	if state.CheckedItems == nil {
		state.CheckedItems = make(map[string]bool)
	}
	if state.CustomItems == nil {
		state.CustomItems = []shopping.ShoppingItem{}
	}
	return &state, nil
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// over path, so readers never observe a partial document.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
