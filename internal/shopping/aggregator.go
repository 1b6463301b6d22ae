package shopping

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
)

const computedIDPrefix = "item-"

// AggregatedIngredient is one merged ingredient of a generation.
type AggregatedIngredient struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Quantity    string   `json:"quantity"`
	Unit        string   `json:"unit,omitempty"`
	Category    Category `json:"category"`
}

// ID is the stable shopping-list id of the ingredient.
func (a AggregatedIngredient) ID() string {
	return ItemID(a.Key)
}

// IngredientGroup holds the aggregated ingredients of one category.
type IngredientGroup struct {
	Category    Category               `json:"category"`
	Ingredients []AggregatedIngredient `json:"ingredients"`
}

// NormalizeName returns the merge key of an ingredient name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ItemID derives the computed-item id from a normalized ingredient name. The
// same name always yields the same id, so checkmarks survive regeneration.
func ItemID(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return computedIDPrefix + hex.EncodeToString(sum[:8])
}

// Aggregate merges the ingredients of every meal's recipe into one entry per
// normalized name and groups them by category in display order.
func Aggregate(meals []planner.Meal) []IngredientGroup {
	var ingredients []recipe.Ingredient
	for _, m := range meals {
		if m.Recipe == nil {
			continue
		}
		ingredients = append(ingredients, m.Recipe.Ingredients...)
	}
	return groupIngredients(mergeIngredients(ingredients))
}

// mergeIngredients keeps encounter order; the first-seen name and unit win.
func mergeIngredients(ingredients []recipe.Ingredient) []AggregatedIngredient {
	index := make(map[string]int)
	var merged []AggregatedIngredient

	for _, ing := range ingredients {
		key := NormalizeName(ing.Name)
		if i, ok := index[key]; ok {
			existing := &merged[i]
			existing.Quantity = Combine(existing.Quantity, existing.Unit, ing.Quantity, ing.Unit)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, AggregatedIngredient{
			Key:         key,
			DisplayName: strings.TrimSpace(ing.Name),
			Quantity:    ing.Quantity,
			Unit:        ing.Unit,
			Category:    Classify(ing.Name),
		})
	}
	return merged
}

func groupIngredients(merged []AggregatedIngredient) []IngredientGroup {
	buckets := groupByCategory(merged,
		func(a AggregatedIngredient) Category { return a.Category },
		func(a AggregatedIngredient) string { return a.DisplayName })

	groups := make([]IngredientGroup, 0, len(buckets))
	for _, b := range buckets {
		groups = append(groups, IngredientGroup{Category: b.category, Ingredients: b.items})
	}
	return groups
}

type bucket[T any] struct {
	category Category
	items    []T
}

// groupByCategory buckets items by category in display order, sorts each
// bucket by name (ordinal) and leaves out empty categories.
func groupByCategory[T any](items []T, category func(T) Category, name func(T) string) []bucket[T] {
	byCategory := make(map[Category][]T)
	for _, it := range items {
		c := category(it)
		byCategory[c] = append(byCategory[c], it)
	}

	cats := make([]Category, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	slices.SortFunc(cats, func(a, b Category) int {
		if d := a.rank() - b.rank(); d != 0 {
			return d
		}
		return strings.Compare(string(a), string(b))
	})

	out := make([]bucket[T], 0, len(cats))
	for _, c := range cats {
		members := byCategory[c]
		slices.SortStableFunc(members, func(a, b T) int {
			return strings.Compare(name(a), name(b))
		})
		out = append(out, bucket[T]{category: c, items: members})
	}
	return out
}
