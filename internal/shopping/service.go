package shopping

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"meal-planner/internal/planner"
)

// ErrConflict is returned by a StateStore when the state was saved by someone
// else since it was loaded.
var ErrConflict = errors.New("list state was modified concurrently")

// ErrInvalidDate is returned for a zero start date.
var ErrInvalidDate = errors.New("invalid start date")

// maxSaveAttempts bounds how often a mutation is re-applied after a conflict.
const maxSaveAttempts = 3

// MealReader returns the planned meals, with their recipes, in a date range.
type MealReader interface {
	GetMealsInRange(ctx context.Context, start, end time.Time) ([]planner.Meal, error)
}

// StateStore persists list-state overlays keyed by week start date.
// GetOrCreate returns an unsaved empty state (Version 0) for an unknown week.
// Save must fail with ErrConflict when the stored Version differs from the
// one that was loaded, and bump Version on success.
type StateStore interface {
	GetOrCreate(ctx context.Context, start time.Time) (*ListState, error)
	Save(ctx context.Context, state *ListState) error
}

// OperationMetric describes one completed service operation.
type OperationMetric struct {
	Operation string
	WeekStart time.Time
	ItemCount int
	Latency   time.Duration
	Failed    bool
}

// Recorder receives operation metrics.
type Recorder interface {
	RecordOperation(m OperationMetric) error
}

// Service builds weekly shopping lists and applies user edits to them.
type Service struct {
	meals    MealReader
	states   StateStore
	recorder Recorder
	locks    keyedMutex
}

// NewService creates a new Service. recorder may be nil.
func NewService(meals MealReader, states StateStore, recorder Recorder) *Service {
	return &Service{
		meals:    meals,
		states:   states,
		recorder: recorder,
	}
}

// Generate computes the shopping list of the week starting at start and
// overlays the saved checkmarks and custom items. It never writes state.
func (s *Service) Generate(ctx context.Context, start time.Time) (list *ShoppingList, err error) {
	began := time.Now()
	defer func() {
		n := 0
		if list != nil {
			n = list.ItemCount()
		}
		s.record("generate", start, n, began, err)
	}()

	if start.IsZero() {
		return nil, ErrInvalidDate
	}
	startDate := planner.Day(start)
	endDate := planner.WeekEnd(startDate)

	groups, err := s.aggregate(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	state, err := s.states.GetOrCreate(ctx, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load list state for %s: %w", planner.FormatDate(startDate), err)
	}

	return assemble(startDate, endDate, groups, state), nil
}

// Toggle sets the checked flag of an item.
func (s *Service) Toggle(ctx context.Context, start time.Time, itemID string, checked bool) (err error) {
	began := time.Now()
	defer func() { s.record("toggle", start, 1, began, err) }()

	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("item id is required")
	}
	return s.mutate(ctx, start, func(st *ListState) {
		st.SetChecked(itemID, checked)
	})
}

// AddCustomItem adds a user item to the week's list and returns it.
func (s *Service) AddCustomItem(ctx context.Context, start time.Time, in CustomItemInput) (item ShoppingItem, err error) {
	began := time.Now()
	defer func() { s.record("add_custom_item", start, 1, began, err) }()

	if strings.TrimSpace(in.Name) == "" {
		return ShoppingItem{}, fmt.Errorf("item name is required")
	}
	if in.Category != "" && !in.Category.Valid() {
		return ShoppingItem{}, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}

	err = s.mutate(ctx, start, func(st *ListState) {
		item = st.AddCustomItem(in.Name, in.Quantity, in.Unit, in.Category)
	})
	if err != nil {
		return ShoppingItem{}, err
	}
	return item, nil
}

// RemoveItem removes a custom item or clears a computed item's checkmark.
// See ListState.RemoveItem for the meaning of the result.
func (s *Service) RemoveItem(ctx context.Context, start time.Time, itemID string) (removed bool, err error) {
	began := time.Now()
	defer func() { s.record("remove_item", start, 1, began, err) }()

	err = s.mutate(ctx, start, func(st *ListState) {
		removed = st.RemoveItem(itemID)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Prune drops checkmarks of computed items that are no longer produced by the
// week's meal plan and returns how many were dropped.
func (s *Service) Prune(ctx context.Context, start time.Time) (removed int, err error) {
	began := time.Now()
	defer func() { s.record("prune", start, removed, began, err) }()

	if start.IsZero() {
		return 0, ErrInvalidDate
	}
	startDate := planner.Day(start)
	groups, err := s.aggregate(ctx, startDate, planner.WeekEnd(startDate))
	if err != nil {
		return 0, err
	}

	live := make(map[string]struct{})
	for _, g := range groups {
		for _, ing := range g.Ingredients {
			live[ing.ID()] = struct{}{}
		}
	}

	err = s.mutate(ctx, startDate, func(st *ListState) {
		removed = st.Prune(live)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Service) aggregate(ctx context.Context, start, end time.Time) ([]IngredientGroup, error) {
	meals, err := s.meals.GetMealsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to read meals for %s..%s: %w", planner.FormatDate(start), planner.FormatDate(end), err)
	}
	return Aggregate(meals), nil
}

// mutate runs a read-modify-write of one week's state. Writers of the same
// week are serialized in-process; a conflict with another process re-applies
// fn to a fresh copy.
func (s *Service) mutate(ctx context.Context, start time.Time, fn func(*ListState)) error {
	if start.IsZero() {
		return ErrInvalidDate
	}
	startDate := planner.Day(start)
	key := planner.FormatDate(startDate)

	unlock := s.locks.Lock(key)
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
		state, err := s.states.GetOrCreate(ctx, startDate)
		if err != nil {
			return fmt.Errorf("failed to load list state for %s: %w", key, err)
		}

		fn(state)

		err = s.states.Save(ctx, state)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConflict) {
			return fmt.Errorf("failed to save list state for %s: %w", key, err)
		}
		lastErr = err
		log.Printf("List state for %s changed concurrently, retrying (attempt %d/%d)", key, attempt, maxSaveAttempts)
	}
	return fmt.Errorf("failed to save list state for %s: %w", key, lastErr)
}

func (s *Service) record(op string, start time.Time, items int, began time.Time, err error) {
	if s.recorder == nil {
		return
	}
	m := OperationMetric{
		Operation: op,
		WeekStart: planner.Day(start),
		ItemCount: items,
		Latency:   time.Since(began),
		Failed:    err != nil,
	}
	if rerr := s.recorder.RecordOperation(m); rerr != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", op, rerr)
	}
}

// assemble overlays the state onto the computed groups and regroups
// everything, custom items included, by category and name.
func assemble(start, end time.Time, groups []IngredientGroup, state *ListState) *ShoppingList {
	var items []ShoppingItem
	for _, g := range groups {
		for _, ing := range g.Ingredients {
			id := ing.ID()
			items = append(items, ShoppingItem{
				ID:        id,
				Name:      ing.DisplayName,
				Quantity:  ing.Quantity,
				Unit:      ing.Unit,
				IsChecked: state.IsChecked(id),
				Category:  ing.Category,
			})
		}
	}
	for _, custom := range state.CustomItems {
		it := custom
		it.IsCustom = true
		if checked, ok := state.CheckedItems[it.ID]; ok {
			it.IsChecked = checked
		}
		if !it.Category.Valid() {
			it.Category = Classify(it.Name)
		}
		items = append(items, it)
	}

	buckets := groupByCategory(items,
		func(it ShoppingItem) Category { return it.Category },
		func(it ShoppingItem) string { return it.Name })

	list := &ShoppingList{
		StartDate:  start,
		EndDate:    end,
		Categories: make([]CategoryItems, 0, len(buckets)),
	}
	for _, b := range buckets {
		list.Categories = append(list.Categories, CategoryItems{Category: b.category, Items: b.items})
	}
	return list
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

// Lock acquires the mutex of key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
