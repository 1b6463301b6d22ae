package planner

import (
	"time"

	"meal-planner/internal/recipe"
)

// MealType is the slot of the day a meal is planned for.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// Meal is a recipe assigned to a date and a meal-type slot.
// Recipe is nil when the slot has no recipe attached (e.g. "eating out").
type Meal struct {
	ID     int64          `json:"id,omitempty"`
	Date   time.Time      `json:"date"`
	Type   MealType       `json:"meal_type"`
	Recipe *recipe.Recipe `json:"recipe,omitempty"`
}

// ParseMealType validates a meal-type slot name.
func ParseMealType(s string) (MealType, bool) {
	switch t := MealType(s); t {
	case MealBreakfast, MealLunch, MealDinner:
		return t, true
	}
	return "", false
}
