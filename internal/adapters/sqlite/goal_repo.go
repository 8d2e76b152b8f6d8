package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/stride/internal/ports/secondary"
)

// GoalRepository implements secondary.GoalRepository with SQLite.
type GoalRepository struct {
	db *sql.DB
}

// NewGoalRepository creates a new SQLite goal repository.
func NewGoalRepository(db *sql.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalSelectCols = "id, title, start_date, target_date, halfway_date, monthly_steps, weekly_steps, daily_steps, created_at, updated_at"

// encodeSteps marshals a step list for storage. An empty list stores as '[]'
// so the column never holds NULL.
func encodeSteps(steps []string) (string, error) {
	if steps == nil {
		steps = []string{}
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("failed to encode steps: %w", err)
	}
	return string(data), nil
}

func decodeSteps(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	var steps []string
	if err := json.Unmarshal([]byte(data), &steps); err != nil {
		return nil, fmt.Errorf("failed to decode steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, nil
	}
	return steps, nil
}

// scanGoal scans a goal row into a GoalRecord.
func scanGoal(scanner interface {
	Scan(dest ...any) error
}) (*secondary.GoalRecord, error) {
	var (
		monthly, weekly, daily string
		createdAt, updatedAt   time.Time
	)

	record := &secondary.GoalRecord{}
	err := scanner.Scan(
		&record.ID, &record.Title, &record.StartDate, &record.TargetDate, &record.HalfwayDate,
		&monthly, &weekly, &daily, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if record.MonthlySteps, err = decodeSteps(monthly); err != nil {
		return nil, err
	}
	if record.WeeklySteps, err = decodeSteps(weekly); err != nil {
		return nil, err
	}
	if record.DailySteps, err = decodeSteps(daily); err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Create persists a new goal.
func (r *GoalRepository) Create(ctx context.Context, goal *secondary.GoalRecord) error {
	monthly, err := encodeSteps(goal.MonthlySteps)
	if err != nil {
		return err
	}
	weekly, err := encodeSteps(goal.WeeklySteps)
	if err != nil {
		return err
	}
	daily, err := encodeSteps(goal.DailySteps)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO goals (id, title, start_date, target_date, halfway_date, monthly_steps, weekly_steps, daily_steps) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		goal.ID, goal.Title, goal.StartDate, goal.TargetDate, goal.HalfwayDate, monthly, weekly, daily,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

// GetByID retrieves a goal by its ID.
func (r *GoalRepository) GetByID(ctx context.Context, id string) (*secondary.GoalRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+goalSelectCols+" FROM goals WHERE id = ?", id)
	record, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("goal %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return record, nil
}

// Update replaces the goal's title and step lists. Start, target and halfway
// dates are fixed at creation and never updated.
func (r *GoalRepository) Update(ctx context.Context, goal *secondary.GoalRecord) error {
	monthly, err := encodeSteps(goal.MonthlySteps)
	if err != nil {
		return err
	}
	weekly, err := encodeSteps(goal.WeeklySteps)
	if err != nil {
		return err
	}
	daily, err := encodeSteps(goal.DailySteps)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE goals SET title = ?, monthly_steps = ?, weekly_steps = ?, daily_steps = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		goal.Title, monthly, weekly, daily, goal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm goal update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s not found", goal.ID)
	}
	return nil
}

// List retrieves all goals ordered by creation.
func (r *GoalRepository) List(ctx context.Context) ([]*secondary.GoalRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+goalSelectCols+" FROM goals ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var out []*secondary.GoalRecord
	for rows.Next() {
		record, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// GetNextID returns the next available goal ID (GOAL-001, GOAL-002, ...).
func (r *GoalRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM goals",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next goal ID: %w", err)
	}
	return fmt.Sprintf("GOAL-%03d", maxID+1), nil
}
