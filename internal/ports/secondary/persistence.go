// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the scheduling core
// drives the external task store.
package secondary

import "context"

// OccurrenceRepository defines the secondary port for the task-occurrence
// row store. The store is the single source of truth for what already
// exists; the core never caches occurrence state.
//
// The store must enforce a uniqueness constraint on (goal_id, source_tag,
// date, title) so that a retried insert after a partial failure cannot
// produce duplicates.
type OccurrenceRepository interface {
	// BulkInsert persists a batch of occurrences as one write.
	BulkInsert(ctx context.Context, rows []*OccurrenceRecord) error

	// QueryFuture returns the dates (ISO, ascending) of existing occurrences
	// for the goal whose source tag is in sourceTags and whose date is on or
	// after fromDate.
	QueryFuture(ctx context.Context, goalID string, sourceTags []string, fromDate string) ([]string, error)

	// DeleteFrom removes the goal's occurrences with a source tag in
	// sourceTags and a date on or after fromDate, returning the number of
	// rows removed. Rows before fromDate and rows with other tags are never
	// touched.
	DeleteFrom(ctx context.Context, goalID string, sourceTags []string, fromDate string) (int, error)

	// ListRange returns all occurrences with fromDate <= date <= toDate,
	// ordered by date.
	ListRange(ctx context.Context, fromDate, toDate string) ([]*OccurrenceRecord, error)

	// ListByGoal returns all of a goal's occurrences ordered by date.
	ListByGoal(ctx context.Context, goalID string) ([]*OccurrenceRecord, error)
}

// OccurrenceRecord represents a task occurrence as stored in persistence.
// Dates are ISO "YYYY-MM-DD" strings so that range comparisons work
// lexicographically.
type OccurrenceRecord struct {
	ID        int64
	GoalID    string // empty for standalone quick entries
	Title     string
	Date      string
	SourceTag string
	Category  string // empty when untagged
	Priority  int    // 0 = none, 1 = high, 2 = normal, 3 = low
	CreatedAt string
}

// GoalRepository defines the secondary port for goal persistence.
type GoalRepository interface {
	// Create persists a new goal.
	Create(ctx context.Context, goal *GoalRecord) error

	// GetByID retrieves a goal by its ID.
	GetByID(ctx context.Context, id string) (*GoalRecord, error)

	// Update replaces an existing goal's title and step lists.
	Update(ctx context.Context, goal *GoalRecord) error

	// List retrieves all goals ordered by creation.
	List(ctx context.Context) ([]*GoalRecord, error)

	// GetNextID returns the next available goal ID.
	GetNextID(ctx context.Context) (string, error)
}

// GoalRecord represents a goal as stored in persistence. Step lists are
// ordered; saving replaces them wholesale.
type GoalRecord struct {
	ID          string
	Title       string
	StartDate   string
	TargetDate  string
	HalfwayDate string

	MonthlySteps []string
	WeeklySteps  []string
	DailySteps   []string

	CreatedAt string
	UpdatedAt string
}
