package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meal-planner/internal/planner"
	"meal-planner/internal/shopping"
)

// ExecutionMetric records metadata for a single shopping-list operation.
type ExecutionMetric struct {
	Operation string
	WeekStart time.Time
	ItemCount int
	LatencyMS int64
	Failed    bool
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO shopping_metrics (operation, week_start, item_count, latency_ms, failed, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Operation, planner.FormatDate(m.WeekStart), m.ItemCount, m.LatencyMS, m.Failed, ts)
	if err != nil {
		return fmt.Errorf("failed to insert metric: %w", err)
	}
	return nil
}

// RecordOperation records metrics directly from a shopping.OperationMetric.
func (s *Store) RecordOperation(op shopping.OperationMetric) error {
	return s.Record(MapOperation(op))
}

// DailyUsage represents operation totals for a single day.
type DailyUsage struct {
	Date           string
	Generations    int
	Mutations      int
	Failures       int
	AvgLatencyMS   float64
	TotalExecution int
}

// GetDailyUsage retrieves usage for the last N days, most recent first.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT date(timestamp) AS day,
			SUM(CASE WHEN operation = 'generate' THEN 1 ELSE 0 END),
			SUM(CASE WHEN operation != 'generate' THEN 1 ELSE 0 END),
			SUM(failed),
			AVG(latency_ms),
			COUNT(*)
		FROM shopping_metrics
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var (
			u   DailyUsage
			day sql.NullString
			avg sql.NullFloat64
		)
		if err := rows.Scan(&day, &u.Generations, &u.Mutations, &u.Failures, &avg, &u.TotalExecution); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		u.Date = "Unknown"
		if day.Valid {
			u.Date = day.String
		}
		if avg.Valid {
			u.AvgLatencyMS = avg.Float64
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(context.Background(), `DELETE FROM shopping_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	return res.RowsAffected()
}

// MapOperation converts a shopping.OperationMetric to an ExecutionMetric.
func MapOperation(op shopping.OperationMetric) ExecutionMetric {
	return ExecutionMetric{
		Operation: op.Operation,
		WeekStart: op.WeekStart,
		ItemCount: op.ItemCount,
		LatencyMS: op.Latency.Milliseconds(),
		Failed:    op.Failed,
		Timestamp: time.Now().UTC(),
	}
}
