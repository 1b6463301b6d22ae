package planner

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   time.Time
	}{
		{"Monday", monday},
		{"Wednesday", time.Date(2026, 10, 14, 18, 0, 0, 0, time.UTC)},
		{"Sunday", time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(monday) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, monday)
			}
		})
	}

	if got := GetNextMonday(monday); !got.Equal(monday.AddDate(0, 0, 7)) {
		t.Errorf("GetNextMonday = %v, want %v", got, monday.AddDate(0, 0, 7))
	}
	if got := WeekEnd(monday); FormatDate(got) != "2026-10-18" {
		t.Errorf("WeekEnd = %s, want 2026-10-18", FormatDate(got))
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-12")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if FormatDate(d) != "2026-10-12" {
		t.Errorf("Expected 2026-10-12, got %s", FormatDate(d))
	}
	if _, err := ParseDate("12/10/2026"); err == nil {
		t.Error("Expected an error for a non ISO date")
	}
}
