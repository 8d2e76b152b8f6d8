// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// OccurrenceRepository implements secondary.OccurrenceRepository with SQLite.
type OccurrenceRepository struct {
	db *sql.DB
}

// NewOccurrenceRepository creates a new SQLite occurrence repository.
func NewOccurrenceRepository(db *sql.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

const occurrenceSelectCols = "id, goal_id, title, date, source_tag, category, priority, created_at"

// scanOccurrence scans an occurrence row into an OccurrenceRecord.
func scanOccurrence(scanner interface {
	Scan(dest ...any) error
}) (*secondary.OccurrenceRecord, error) {
	var (
		goalID    sql.NullString
		category  sql.NullString
		priority  sql.NullInt64
		createdAt time.Time
	)

	record := &secondary.OccurrenceRecord{}
	err := scanner.Scan(
		&record.ID, &goalID, &record.Title, &record.Date,
		&record.SourceTag, &category, &priority, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.GoalID = goalID.String
	record.Category = category.String
	record.Priority = int(priority.Int64)
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// BulkInsert persists a batch of occurrences inside a single transaction so
// a reseed's insert phase either lands entirely or not at all.
func (r *OccurrenceRepository) BulkInsert(ctx context.Context, rows []*secondary.OccurrenceRecord) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO occurrences (goal_id, title, date, source_tag, category, priority) VALUES (?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		var goalID, category sql.NullString
		var priority sql.NullInt64
		if row.GoalID != "" {
			goalID = sql.NullString{String: row.GoalID, Valid: true}
		}
		if row.Category != "" {
			category = sql.NullString{String: row.Category, Valid: true}
		}
		if row.Priority != 0 {
			priority = sql.NullInt64{Int64: int64(row.Priority), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, goalID, row.Title, row.Date, row.SourceTag, category, priority); err != nil {
			return fmt.Errorf("failed to insert occurrence %q on %s: %w", row.Title, row.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insert: %w", err)
	}
	return nil
}

// tagPlaceholders renders a (?, ?, ...) list for a source-tag set.
func tagPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// QueryFuture returns the dates of the goal's occurrences tagged with one of
// sourceTags on or after fromDate, ascending.
func (r *OccurrenceRepository) QueryFuture(ctx context.Context, goalID string, sourceTags []string, fromDate string) ([]string, error) {
	if len(sourceTags) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT date FROM occurrences WHERE goal_id = ? AND source_tag IN (%s) AND date >= ? ORDER BY date",
		tagPlaceholders(len(sourceTags)),
	)
	args := make([]any, 0, len(sourceTags)+2)
	args = append(args, goalID)
	for _, tag := range sourceTags {
		args = append(args, tag)
	}
	args = append(args, fromDate)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query future occurrences: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan occurrence date: %w", err)
		}
		out = append(out, date)
	}
	return out, rows.Err()
}

// DeleteFrom removes the goal's occurrences tagged with one of sourceTags on
// or after fromDate. Earlier rows and rows with other source tags survive.
func (r *OccurrenceRepository) DeleteFrom(ctx context.Context, goalID string, sourceTags []string, fromDate string) (int, error) {
	if len(sourceTags) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"DELETE FROM occurrences WHERE goal_id = ? AND source_tag IN (%s) AND date >= ?",
		tagPlaceholders(len(sourceTags)),
	)
	args := make([]any, 0, len(sourceTags)+2)
	args = append(args, goalID)
	for _, tag := range sourceTags {
		args = append(args, tag)
	}
	args = append(args, fromDate)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete occurrences: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted occurrences: %w", err)
	}
	return int(n), nil
}

// ListRange returns all occurrences in the inclusive date range.
func (r *OccurrenceRepository) ListRange(ctx context.Context, fromDate, toDate string) ([]*secondary.OccurrenceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+occurrenceSelectCols+" FROM occurrences WHERE date >= ? AND date <= ? ORDER BY date, id",
		fromDate, toDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrences: %w", err)
	}
	defer rows.Close()
	return collectOccurrences(rows)
}

// ListByGoal returns all of a goal's occurrences ordered by date.
func (r *OccurrenceRepository) ListByGoal(ctx context.Context, goalID string) ([]*secondary.OccurrenceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+occurrenceSelectCols+" FROM occurrences WHERE goal_id = ? ORDER BY date, id",
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal occurrences: %w", err)
	}
	defer rows.Close()
	return collectOccurrences(rows)
}

func collectOccurrences(rows *sql.Rows) ([]*secondary.OccurrenceRecord, error) {
	var out []*secondary.OccurrenceRecord
	for rows.Next() {
		record, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan occurrence: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}
