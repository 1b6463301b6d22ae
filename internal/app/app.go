package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"meal-planner/internal/config"
	"meal-planner/internal/database"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"
	"meal-planner/internal/storage"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	recipeRepo   *recipe.Repository
	mealRepo     *planner.MealRepository
	metricsStore *metrics.Store
	shopping     *shopping.Service
}

// New opens the database and wires the repositories and the shopping service.
// The list-state store is chosen by cfg.ListStateBackend.
func New(cfg *config.Config) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var states shopping.StateStore
	switch cfg.ListStateBackend {
	case config.BackendFile:
		fileStore, err := storage.NewListStateStore(cfg.ListStatePath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize list state store: %w", err)
		}
		states = fileStore
	default:
		states = shopping.NewRepository(db.SQL)
	}
	log.Printf("Using %s list-state backend", cfg.ListStateBackend)

	mealRepo := planner.NewMealRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	return &App{
		cfg:          cfg,
		db:           db,
		recipeRepo:   recipe.NewRepository(db.SQL),
		mealRepo:     mealRepo,
		metricsStore: metricsStore,
		shopping:     shopping.NewService(mealRepo, states, metricsStore),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

// Shopping returns the shopping-list service.
func (a *App) Shopping() *shopping.Service { return a.shopping }

// Metrics returns the metrics store.
func (a *App) Metrics() *metrics.Store { return a.metricsStore }

// AddMeal plans a meal slot. When recipeFile is set, the recipe JSON it holds
// is stored first and attached to the meal.
func (a *App) AddMeal(ctx context.Context, date time.Time, mealType planner.MealType, recipeFile string) (int64, error) {
	var recipeID string
	if recipeFile != "" {
		data, err := os.ReadFile(recipeFile)
		if err != nil {
			return 0, fmt.Errorf("failed to read recipe file %s: %w", recipeFile, err)
		}
		rec, err := recipe.Decode(string(data))
		if err != nil {
			return 0, err
		}
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if err := a.recipeRepo.Save(ctx, *rec); err != nil {
			return 0, fmt.Errorf("failed to save recipe '%s': %w", rec.Title, err)
		}
		log.Printf("Saved recipe '%s' (%d ingredients)", rec.Title, len(rec.Ingredients))
		recipeID = rec.ID
	}

	id, err := a.mealRepo.Save(ctx, date, mealType, recipeID)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// PrintShoppingList writes the list of the week starting at start as plain text.
func (a *App) PrintShoppingList(ctx context.Context, w io.Writer, start time.Time) error {
	list, err := a.shopping.Generate(ctx, start)
	if err != nil {
		return fmt.Errorf("failed to generate shopping list: %w", err)
	}
	fmt.Fprint(w, FormatShoppingList(list))
	return nil
}

// FormatShoppingList renders a list as plain text, one category per block.
func FormatShoppingList(list *shopping.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Shopping list %s to %s\n",
		planner.FormatDate(list.StartDate), planner.FormatDate(list.EndDate)))
	if len(list.Categories) == 0 {
		sb.WriteString("\n(nothing planned)\n")
		return sb.String()
	}
	for _, group := range list.Categories {
		sb.WriteString(fmt.Sprintf("\n%s\n", group.Category))
		for _, item := range group.Items {
			box := "[ ]"
			if item.IsChecked {
				box = "[x]"
			}
			line := fmt.Sprintf("  %s %s", box, item.Name)
			if qty := strings.TrimSpace(item.Quantity + " " + item.Unit); qty != "" {
				line += " (" + qty + ")"
			}
			sb.WriteString(fmt.Sprintf("%s  %s\n", line, item.ID))
		}
	}
	return sb.String()
}

// PruneWeek drops stale checkmarks of the week and reports how many went.
func (a *App) PruneWeek(ctx context.Context, start time.Time) (int, error) {
	return a.shopping.Prune(ctx, start)
}

// CleanupMetrics removes metric records older than days.
func (a *App) CleanupMetrics(days int) (int64, error) {
	return a.metricsStore.Cleanup(days)
}
