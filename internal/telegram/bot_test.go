package telegram

import (
	"errors"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/shopping"
)

func TestFormatShoppingListMarkdown(t *testing.T) {
	list := &shopping.ShoppingList{
		StartDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		Categories: []shopping.CategoryItems{
			{Category: shopping.CategoryDairy, Items: []shopping.ShoppingItem{
				{ID: "item-1", Name: "Milk", Quantity: "2", Unit: "cup", IsChecked: true},
				{ID: "custom-1", Name: "Eggs", Quantity: "12", IsCustom: true},
			}},
			{Category: shopping.CategoryPantry, Items: []shopping.ShoppingItem{
				{ID: "item-2", Name: "Salt", Quantity: "to taste + to taste"},
			}},
		},
	}

	output := formatShoppingListMarkdown(list)

	if !strings.Contains(output, "🛒 *Shopping List* (2026-10-12 – 2026-10-18)") {
		t.Error("Missing shopping list header")
	}
	if !strings.Contains(output, "*Dairy*") || !strings.Contains(output, "*Pantry*") {
		t.Error("Missing category headers")
	}
	if !strings.Contains(output, "✅ Milk - 2 cup") {
		t.Error("Missing checked Milk line")
	}
	if !strings.Contains(output, "▫️ Eggs - 12 _(added)_") {
		t.Error("Missing custom Eggs line")
	}
	if !strings.Contains(output, "Salt - to taste + to taste") {
		t.Error("Missing Salt line")
	}
	if strings.Index(output, "*Dairy*") > strings.Index(output, "*Pantry*") {
		t.Error("Expected Dairy before Pantry")
	}

	kb, ok := checklistKeyboard(list)
	if !ok || len(kb.InlineKeyboard) != 3 {
		t.Fatalf("Expected a 3-row keyboard, got %v rows", len(kb.InlineKeyboard))
	}
	if data := *kb.InlineKeyboard[0][0].CallbackData; data != "t|2026-10-12|0|item-1" {
		t.Errorf("Expected checked Milk to toggle off, got %s", data)
	}
}

func TestFormatEmptyList(t *testing.T) {
	list := &shopping.ShoppingList{StartDate: time.Now(), EndDate: time.Now()}
	if !strings.Contains(formatShoppingListMarkdown(list), "Nothing planned") {
		t.Error("Expected empty-week message")
	}
	if _, ok := checklistKeyboard(list); ok {
		t.Error("Expected no keyboard for an empty list")
	}
}

func TestToggleDataRoundTrip(t *testing.T) {
	week := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	id := "custom-123e4567-e89b-12d3-a456-426614174000"

	data := toggleData(week, id, true)
	if len(data) > 64 {
		t.Errorf("Callback data exceeds 64 bytes: %d", len(data))
	}

	gotWeek, gotID, checked, err := parseToggleData(data)
	if err != nil {
		t.Fatalf("parseToggleData failed: %v", err)
	}
	if !gotWeek.Equal(week) || gotID != id || !checked {
		t.Errorf("Unexpected round trip: %v %s %v", gotWeek, gotID, checked)
	}

	if _, _, _, err := parseToggleData("redo|something"); err == nil {
		t.Error("Expected an error for foreign callback data")
	}
}

func TestParseAddArgs(t *testing.T) {
	in, err := parseAddArgs("Eggs; 12; ; dairy")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if in.Name != "Eggs" || in.Quantity != "12" || in.Unit != "" || in.Category != shopping.CategoryDairy {
		t.Errorf("Unexpected input: %+v", in)
	}

	in, err = parseAddArgs("Paper towels")
	if err != nil || in.Name != "Paper towels" || in.Category != "" {
		t.Errorf("Expected name-only input, got %+v, %v", in, err)
	}

	if _, err := parseAddArgs(""); err == nil {
		t.Error("Expected an error for an empty name")
	}
	if _, err := parseAddArgs("Ice; 1; bag; Frozen"); !errors.Is(err, shopping.ErrInvalidCategory) {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

func TestResolveWeek(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	got, err := resolveWeek("", now)
	if err != nil || got.Weekday() != time.Monday || got.Day() != 12 {
		t.Errorf("Expected Monday 12th, got %v, %v", got, err)
	}
	if _, err := resolveWeek("soon", now); err == nil {
		t.Error("Expected an error for a malformed date")
	}
}
