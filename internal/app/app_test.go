package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/config"
	"meal-planner/internal/planner"
	"meal-planner/internal/shopping"
)

func newTestApp(t *testing.T, backend string) *App {
	t.Helper()
	dir := t.TempDir()
	a, err := New(&config.Config{
		DatabasePath:     filepath.Join(dir, "test.db"),
		ListStateBackend: backend,
		ListStatePath:    filepath.Join(dir, "states"),
	})
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func writeRecipe(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipe.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAddMealAndPrint(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			a := newTestApp(t, backend)
			week := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

			file := writeRecipe(t, `{"title":"Pancakes","ingredients":[
				{"name":"Milk","quantity":"1","unit":"cup"},
				{"name":"Flour","quantity":"2","unit":"cup"}]}`)
			if _, err := a.AddMeal(ctx, week.AddDate(0, 0, 1), planner.MealBreakfast, file); err != nil {
				t.Fatalf("AddMeal failed: %v", err)
			}
			if _, err := a.AddMeal(ctx, week.AddDate(0, 0, 2), planner.MealDinner, ""); err != nil {
				t.Fatalf("AddMeal without recipe failed: %v", err)
			}

			list, err := a.Shopping().Generate(ctx, week)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			milk := findByName(list, "Milk")
			if milk == nil {
				t.Fatal("Expected Milk on the list")
			}
			if err := a.Shopping().Toggle(ctx, week, milk.ID, true); err != nil {
				t.Fatalf("Toggle failed: %v", err)
			}

			var sb strings.Builder
			if err := a.PrintShoppingList(ctx, &sb, week); err != nil {
				t.Fatalf("PrintShoppingList failed: %v", err)
			}
			out := sb.String()
			if !strings.Contains(out, "[x] Milk (1 cup)") {
				t.Errorf("Expected checked Milk line, got:\n%s", out)
			}
			if !strings.Contains(out, "[ ] Flour (2 cup)") {
				t.Errorf("Expected Flour line, got:\n%s", out)
			}

			usage, err := a.Metrics().GetDailyUsage(1)
			if err != nil {
				t.Fatalf("GetDailyUsage failed: %v", err)
			}
			if len(usage) == 0 || usage[0].Generations < 2 {
				t.Errorf("Expected recorded generations, got %+v", usage)
			}
		})
	}
}

func TestAddMealBadRecipe(t *testing.T) {
	a := newTestApp(t, config.BackendSQLite)
	file := writeRecipe(t, "not json")
	if _, err := a.AddMeal(context.Background(), time.Now(), planner.MealLunch, file); err == nil {
		t.Fatal("Expected an error for an invalid recipe file")
	}
}

func TestFormatShoppingListEmpty(t *testing.T) {
	week := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	out := FormatShoppingList(&shopping.ShoppingList{StartDate: week, EndDate: planner.WeekEnd(week)})
	if !strings.Contains(out, "2026-10-12 to 2026-10-18") || !strings.Contains(out, "(nothing planned)") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func findByName(list *shopping.ShoppingList, name string) *shopping.ShoppingItem {
	for _, g := range list.Categories {
		for i := range g.Items {
			if g.Items[i].Name == name {
				return &g.Items[i]
			}
		}
	}
	return nil
}
