package shopping

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the purchase aisle an item is grouped under.
type Category string

const (
	CategoryProduce Category = "Produce"
	CategoryDairy   Category = "Dairy"
	CategoryMeat    Category = "Meat"
	CategoryPantry  Category = "Pantry"
)

// ErrInvalidCategory is returned when a category tag is not one of the known categories.
var ErrInvalidCategory = errors.New("invalid category")

var displayOrder = []Category{CategoryProduce, CategoryDairy, CategoryMeat, CategoryPantry}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(displayOrder))
	copy(out, displayOrder)
	return out
}

// rank is the position of c in display order; unknown categories sort last.
func (c Category) rank() int {
	for i, known := range displayOrder {
		if c == known {
			return i
		}
	}
	return len(displayOrder)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.rank() < len(displayOrder)
}

// ParseCategory resolves a case-insensitive category tag.
func ParseCategory(s string) (Category, error) {
	tag := strings.TrimSpace(s)
	for _, c := range displayOrder {
		if strings.EqualFold(tag, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

var (
	produceKeywords = []string{
		"apple", "avocado", "banana", "basil", "bean sprout", "berries", "broccoli",
		"cabbage", "carrot", "cauliflower", "celery", "cilantro", "cucumber",
		"eggplant", "garlic", "ginger", "grape", "kale", "leek", "lemon", "lettuce",
		"lime", "mango", "mushroom", "onion", "orange", "parsley", "pepper",
		"potato", "scallion", "shallot", "spinach", "squash", "strawberr",
		"tomato", "zucchini",
	}
	dairyKeywords = []string{
		"butter", "cheese", "cream", "egg", "ghee", "milk", "mozzarella",
		"parmesan", "yogurt", "yoghurt",
	}
	meatKeywords = []string{
		"bacon", "beef", "chicken", "chorizo", "cod", "fish", "lamb", "pork",
		"prawn", "salami", "salmon", "sausage", "shrimp", "steak", "tuna",
		"turkey",
	}
)

// categoryRule matches a lower-cased ingredient name to a category.
type categoryRule struct {
	category Category
	matches  func(name string) bool
}

// rules are evaluated in order and the first match wins. Pantry is the
// fallback and has no rule.
var rules = []categoryRule{
	{CategoryProduce, func(name string) bool {
		for _, kw := range produceKeywords {
			if !strings.Contains(name, kw) {
				continue
			}
			if kw == "pepper" && strings.Contains(name, "pepper flakes") {
				continue
			}
			return true
		}
		return false
	}},
	{CategoryDairy, containsAny(dairyKeywords)},
	{CategoryMeat, containsAny(meatKeywords)},
}

func containsAny(keywords []string) func(string) bool {
	return func(name string) bool {
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
		return false
	}
}

// Classify assigns an ingredient name to a purchase category by
// case-insensitive keyword matching, defaulting to Pantry.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	for _, r := range rules {
		if r.matches(lower) {
			return r.category
		}
	}
	return CategoryPantry
}
