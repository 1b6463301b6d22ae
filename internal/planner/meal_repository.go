package planner

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"meal-planner/internal/recipe"
)

// MealRepository is a database-backed repository for planned meals.
type MealRepository struct {
	db *sql.DB
}

// NewMealRepository creates a new MealRepository.
func NewMealRepository(d *sql.DB) *MealRepository {
	return &MealRepository{db: d}
}

// Save assigns a recipe (or nothing, when recipeID is empty) to a date and slot.
func (r *MealRepository) Save(ctx context.Context, date time.Time, mealType MealType, recipeID string) (int64, error) {
	var rid sql.NullString
	if recipeID != "" {
		rid = sql.NullString{String: recipeID, Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meals (meal_date, meal_type, recipe_id, created_at) VALUES (?, ?, ?, ?)`,
		FormatDate(date), string(mealType), rid, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read meal id: %w", err)
	}
	return id, nil
}

// Delete removes a planned meal.
func (r *MealRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete meal %d: %w", id, err)
	}
	return nil
}

// GetMealsInRange returns the meals planned between start and end (inclusive),
// ordered by date, slot and insertion. Meals whose recipe is missing are
// returned with a nil Recipe.
func (r *MealRepository) GetMealsInRange(ctx context.Context, start, end time.Time) ([]Meal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.meal_date, m.meal_type, r.data
		FROM meals m
		LEFT JOIN recipes r ON r.id = m.recipe_id
		WHERE m.meal_date BETWEEN ? AND ?
		ORDER BY m.meal_date,
			CASE m.meal_type WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END,
			m.id`,
		FormatDate(start), FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list meals between %s and %s: %w", FormatDate(start), FormatDate(end), err)
	}
	defer rows.Close()

	var meals []Meal
	for rows.Next() {
		var (
			id       int64
			mealDate string
			mealType string
			data     sql.NullString
		)
		if err := rows.Scan(&id, &mealDate, &mealType, &data); err != nil {
			return nil, fmt.Errorf("failed to scan meal row: %w", err)
		}

		date, err := ParseDate(mealDate)
		if err != nil {
			return nil, fmt.Errorf("corrupt meal %d: %w", id, err)
		}

		meal := Meal{ID: id, Date: date, Type: MealType(mealType)}
		if data.Valid {
			rec, err := recipe.Decode(data.String)
			if err != nil {
				// A single unreadable recipe must not blank the whole week.
				log.Printf("Warning: skipping recipe for meal %d: %v", id, err)
			} else {
				meal.Recipe = rec
			}
		}
		meals = append(meals, meal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}
	return meals, nil
}
