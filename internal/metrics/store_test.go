package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"meal-planner/internal/database"
	"meal-planner/internal/shopping"
)

func TestStore(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	store := NewStore(db.SQL)
	week := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	ops := []shopping.OperationMetric{
		{Operation: "generate", WeekStart: week, ItemCount: 5, Latency: 10 * time.Millisecond},
		{Operation: "toggle", WeekStart: week, ItemCount: 1, Latency: 30 * time.Millisecond},
		{Operation: "add_custom_item", WeekStart: week, ItemCount: 1, Failed: true},
	}
	for _, op := range ops {
		if err := store.RecordOperation(op); err != nil {
			t.Fatalf("RecordOperation failed: %v", err)
		}
	}
	old := ExecutionMetric{Operation: "generate", WeekStart: week, Timestamp: time.Now().UTC().AddDate(0, 0, -40)}
	if err := store.Record(old); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	usage, err := store.GetDailyUsage(7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("Expected 1 day of usage, got %d", len(usage))
	}
	today := usage[0]
	if today.Generations != 1 || today.Mutations != 2 || today.Failures != 1 || today.TotalExecution != 3 {
		t.Errorf("Unexpected daily usage: %+v", today)
	}

	removed, err := store.Cleanup(30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 old record removed, got %d", removed)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := map[int64]string{
		512:         "512 B",
		2048:        "2.0 KB",
		5 * 1 << 20: "5.0 MB",
	}
	for in, want := range tests {
		if got := humanBytes(in); got != want {
			t.Errorf("humanBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestGetSysHealth(t *testing.T) {
	h := GetSysHealth(t.TempDir())
	if h.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", h.Goroutines)
	}
	if h.DataDiskSize != "0 B" {
		t.Errorf("Expected empty dir to report 0 B, got %s", h.DataDiskSize)
	}
}
