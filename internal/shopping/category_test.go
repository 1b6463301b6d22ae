package shopping

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"Tomatoes", CategoryProduce},
		{"  GARLIC cloves", CategoryProduce},
		{"red bell pepper", CategoryProduce},
		{"red pepper flakes", CategoryPantry},
		{"Milk", CategoryDairy},
		{"Eggs", CategoryDairy},
		{"Greek yogurt", CategoryDairy},
		{"Chicken breast", CategoryMeat},
		{"ground beef", CategoryMeat},
		{"Salt", CategoryPantry},
		{"xylophone seasoning", CategoryPantry},
		{"", CategoryPantry},
		// Produce is checked before Dairy.
		{"spinach and cheese filling", CategoryProduce},
		{"eggplant", CategoryProduce},
		// Dairy is checked before Meat.
		{"butter chicken sauce", CategoryDairy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory(" dairy ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != CategoryDairy {
		t.Errorf("Expected Dairy, got %s", got)
	}

	if _, err := ParseCategory("Frozen"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

func TestCategoriesOrder(t *testing.T) {
	want := []Category{CategoryProduce, CategoryDairy, CategoryMeat, CategoryPantry}
	got := Categories()
	if len(got) != len(want) {
		t.Fatalf("Expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Category %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
