package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"meal-planner/internal/planner"
)

// Repository handles persistence of list-state overlays in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new list-state repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// GetOrCreate loads the state of the week starting at start, or returns a new
// unsaved one when none was stored yet.
func (r *Repository) GetOrCreate(ctx context.Context, start time.Time) (*ListState, error) {
	weekStart := planner.FormatDate(start)

	var (
		checkedJSON string
		customJSON  string
		version     int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT checked_items, custom_items, version FROM shopping_list_states WHERE week_start = ?`,
		weekStart).Scan(&checkedJSON, &customJSON, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewListState(start), nil
		}
		return nil, fmt.Errorf("failed to get list state for week %s: %w", weekStart, err)
	}

	state := NewListState(start)
	state.Version = version
	if err := json.Unmarshal([]byte(checkedJSON), &state.CheckedItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checked items for week %s: %w", weekStart, err)
	}
	if err := json.Unmarshal([]byte(customJSON), &state.CustomItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal custom items for week %s: %w", weekStart, err)
	}
	if state.CheckedItems == nil {
		state.CheckedItems = make(map[string]bool)
	}
	if state.CustomItems == nil {
		state.CustomItems = []ShoppingItem{}
	}
	return state, nil
}

// Save writes the state if nobody else saved the same week since it was
// loaded, and advances its Version.
func (r *Repository) Save(ctx context.Context, state *ListState) error {
	checkedJSON, err := json.Marshal(state.CheckedItems)
	if err != nil {
		return fmt.Errorf("failed to marshal checked items: %w", err)
	}
	custom := state.CustomItems
	if custom == nil {
		custom = []ShoppingItem{}
	}
	customJSON, err := json.Marshal(custom)
	if err != nil {
		return fmt.Errorf("failed to marshal custom items: %w", err)
	}

	weekStart := planner.FormatDate(state.StartDate)
	now := time.Now().UTC()

	var res sql.Result
	if state.Version == 0 {
		res, err = r.db.ExecContext(ctx, `
			INSERT INTO shopping_list_states (week_start, week_end, checked_items, custom_items, version, updated_at)
			VALUES (?, ?, ?, ?, 1, ?)
			ON CONFLICT(week_start) DO NOTHING`,
			weekStart, planner.FormatDate(state.EndDate), string(checkedJSON), string(customJSON), now)
	} else {
		res, err = r.db.ExecContext(ctx, `
			UPDATE shopping_list_states
			SET checked_items = ?, custom_items = ?, version = version + 1, updated_at = ?
			WHERE week_start = ? AND version = ?`,
			string(checkedJSON), string(customJSON), now, weekStart, state.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to save list state for week %s: %w", weekStart, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrConflict
	}

	state.Version++
	return nil
}
