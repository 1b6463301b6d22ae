package shopping

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"meal-planner/internal/planner"
)

const customIDPrefix = "custom-"

// newCustomID is replaced in tests that need predictable ids.
var newCustomID = func() string {
	return customIDPrefix + uuid.NewString()
}

// IsCustomID reports whether id belongs to the custom-item namespace.
func IsCustomID(id string) bool {
	return strings.HasPrefix(id, customIDPrefix)
}

// ListState is the user-editable overlay of one week's shopping list.
// Version is the optimistic-concurrency stamp of the persisted copy; zero
// means the state has never been saved.
type ListState struct {
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	CheckedItems map[string]bool `json:"checked_items"`
	CustomItems  []ShoppingItem  `json:"custom_items"`
	Version      int64           `json:"version"`
}

// NewListState returns the empty overlay of the week starting at start.
func NewListState(start time.Time) *ListState {
	day := planner.Day(start)
	return &ListState{
		StartDate:    day,
		EndDate:      planner.WeekEnd(day),
		CheckedItems: make(map[string]bool),
		CustomItems:  []ShoppingItem{},
	}
}

// SetChecked records the checked flag for any id, known or not. A flag for an
// id that is not on the list yet takes effect once that item appears.
func (s *ListState) SetChecked(itemID string, checked bool) {
	if s.CheckedItems == nil {
		s.CheckedItems = make(map[string]bool)
	}
	s.CheckedItems[itemID] = checked
	for i := range s.CustomItems {
		if s.CustomItems[i].ID == itemID {
			s.CustomItems[i].IsChecked = checked
		}
	}
}

// IsChecked reports the checked flag of an id; untracked ids are unchecked.
func (s *ListState) IsChecked(itemID string) bool {
	return s.CheckedItems[itemID]
}

// AddCustomItem appends a user-added item and returns it. An empty category
// is resolved from the name.
func (s *ListState) AddCustomItem(name, quantity, unit string, category Category) ShoppingItem {
	if category == "" {
		category = Classify(name)
	}
	item := ShoppingItem{
		ID:        newCustomID(),
		Name:      strings.TrimSpace(name),
		Quantity:  quantity,
		Unit:      unit,
		IsChecked: false,
		IsCustom:  true,
		Category:  category,
	}
	s.CustomItems = append(s.CustomItems, item)
	return item
}

// RemoveItem drops an item from the overlay. For custom ids it reports whether
// the item existed. For computed ids it only clears the checked flag and
// always reports true: an untracked item is indistinguishable from an
// unchecked one.
func (s *ListState) RemoveItem(itemID string) bool {
	if !IsCustomID(itemID) {
		delete(s.CheckedItems, itemID)
		return true
	}

	found := false
	kept := s.CustomItems[:0]
	for _, it := range s.CustomItems {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	s.CustomItems = kept
	delete(s.CheckedItems, itemID)
	return found
}

// Prune deletes checked flags whose ids are neither in live nor custom items
// of this state, and returns how many were removed.
func (s *ListState) Prune(live map[string]struct{}) int {
	custom := make(map[string]struct{}, len(s.CustomItems))
	for _, it := range s.CustomItems {
		custom[it.ID] = struct{}{}
	}

	removed := 0
	for id := range s.CheckedItems {
		if _, ok := live[id]; ok {
			continue
		}
		if _, ok := custom[id]; ok {
			continue
		}
		delete(s.CheckedItems, id)
		removed++
	}
	return removed
}

// Clone returns a deep copy of the state.
func (s *ListState) Clone() *ListState {
	c := *s
	c.CheckedItems = make(map[string]bool, len(s.CheckedItems))
	for k, v := range s.CheckedItems {
		c.CheckedItems[k] = v
	}
	c.CustomItems = append([]ShoppingItem(nil), s.CustomItems...)
	if c.CustomItems == nil {
		c.CustomItems = []ShoppingItem{}
	}
	return &c
}
