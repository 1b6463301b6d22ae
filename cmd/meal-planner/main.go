package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/httpapi"
	"meal-planner/internal/planner"
)

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	switch os.Args[1] {
	case "serve":
		if err := serve(cfg, application); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case "shopping-list":
		listCmd := flag.NewFlagSet("shopping-list", flag.ExitOnError)
		week := listCmd.String("week", "", "Any date of the week (YYYY-MM-DD); defaults to the current week")
		next := listCmd.Bool("next", false, "Show next week's list")
		listCmd.Parse(os.Args[2:])

		start, err := weekFlag(*week)
		if err != nil {
			log.Fatalf("Invalid -week: %v", err)
		}
		if *next {
			start = planner.GetNextMonday(time.Now())
		}
		if err := application.PrintShoppingList(ctx, os.Stdout, start); err != nil {
			log.Fatalf("Shopping list failed: %v", err)
		}
	case "prune":
		pruneCmd := flag.NewFlagSet("prune", flag.ExitOnError)
		week := pruneCmd.String("week", "", "Any date of the week (YYYY-MM-DD); defaults to the current week")
		pruneCmd.Parse(os.Args[2:])

		start, err := weekFlag(*week)
		if err != nil {
			log.Fatalf("Invalid -week: %v", err)
		}
		n, err := application.PruneWeek(ctx, start)
		if err != nil {
			log.Fatalf("Prune failed: %v", err)
		}
		fmt.Printf("Removed %d stale checkmarks for week %s.\n", n, planner.FormatDate(start))
	case "add-meal":
		mealCmd := flag.NewFlagSet("add-meal", flag.ExitOnError)
		date := mealCmd.String("date", "", "Meal date (YYYY-MM-DD)")
		mealType := mealCmd.String("type", string(planner.MealDinner), "breakfast, lunch or dinner")
		recipeFile := mealCmd.String("recipe", "", "Path to a recipe JSON file")
		mealCmd.Parse(os.Args[2:])

		day, err := planner.ParseDate(*date)
		if err != nil {
			log.Fatalf("Invalid -date: %v", err)
		}
		mt, ok := planner.ParseMealType(*mealType)
		if !ok {
			log.Fatalf("Invalid -type: %q", *mealType)
		}
		id, err := application.AddMeal(ctx, day, mt, *recipeFile)
		if err != nil {
			log.Fatalf("Adding meal failed: %v", err)
		}
		fmt.Printf("Planned %s on %s (meal %d).\n", mt, planner.FormatDate(day), id)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := application.CleanupMetrics(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func serve(cfg *config.Config, application *app.App) error {
	if err := cfg.RequireJWTSecret(); err != nil {
		return err
	}

	srv := httpapi.NewServer(application.Shopping(), httpapi.Config{
		JWTSecret: []byte(cfg.JWTSecret),
		DataPath:  cfg.ListStatePath,
		AccessLog: os.Stdout,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Shopping list API listening on port %s", cfg.Port)
		errCh <- srv.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Println("Shutting down server...")

	if err := srv.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server exiting")
	return nil
}

func weekFlag(s string) (time.Time, error) {
	if s == "" {
		return planner.WeekStart(time.Now()), nil
	}
	d, err := planner.ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return planner.WeekStart(d), nil
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve              Run the shopping list REST API")
	fmt.Println("  shopping-list      Print the shopping list of a week")
	fmt.Println("  prune              Forget checkmarks of ingredients no longer planned")
	fmt.Println("  add-meal           Plan a meal, optionally with a recipe JSON file")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
