package primary

import (
	"context"

	"github.com/example/stride/internal/core/cadence"
	"github.com/example/stride/internal/core/dates"
)

// GoalService defines the primary port for goal and cadence operations.
type GoalService interface {
	// CreateGoal creates a goal, fixes its halfway checkpoint and writes the
	// milestone occurrences.
	CreateGoal(ctx context.Context, req CreateGoalRequest) (*CreateGoalResponse, error)

	// GetGoal retrieves a goal's plan.
	GetGoal(ctx context.Context, goalID string) (*Goal, error)

	// ListGoals lists all goals.
	ListGoals(ctx context.Context) ([]*Goal, error)

	// SaveSteps replaces the goal's cadence step lists and reseeds future
	// occurrences from today through the target date.
	SaveSteps(ctx context.Context, req SaveStepsRequest) (*ReseedResponse, error)

	// Reseed regenerates the goal's future cadence occurrences: it deletes
	// cadence-tagged rows dated on or after today and inserts a fresh seed
	// for the remaining window. Past rows and milestones are untouched.
	// Reseeding twice with unchanged inputs leaves the store identical.
	Reseed(ctx context.Context, goalID string, today dates.Date) (*ReseedResponse, error)

	// CheckAndReseed runs the safety check: if the goal is between halfway
	// and target and no future cadence occurrence exists, it reseeds.
	// Returns nil when no reseed was needed.
	CheckAndReseed(ctx context.Context, goalID string, today dates.Date) (*ReseedResponse, error)

	// Status reports the goal's lifecycle state as of today.
	Status(ctx context.Context, goalID string, today dates.Date) (*GoalStatus, error)
}

// CreateGoalRequest contains parameters for creating a goal.
type CreateGoalRequest struct {
	Title      string
	StartDate  dates.Date
	TargetDate dates.Date
}

// CreateGoalResponse contains the result of creating a goal.
type CreateGoalResponse struct {
	GoalID string
	Goal   *Goal
}

// Goal is a goal and its cadence plan as presented to consumers.
type Goal struct {
	ID           string
	Title        string
	StartDate    dates.Date
	TargetDate   dates.Date
	HalfwayDate  dates.Date
	MonthlySteps []string
	WeeklySteps  []string
	DailySteps   []string
}

// SaveStepsRequest replaces a goal's step lists. All three buckets are
// replaced together; an absent bucket clears it.
type SaveStepsRequest struct {
	GoalID       string
	Today        dates.Date
	MonthlySteps []string
	WeeklySteps  []string
	DailySteps   []string
}

// ReseedResponse reports what a reseed did.
type ReseedResponse struct {
	GoalID   string
	Deleted  int
	Inserted int
}

// GoalStatus reports a goal's lifecycle state on a given day.
type GoalStatus struct {
	Goal            *Goal
	State           cadence.State
	InHalfwayWindow bool
	FutureCadence   int // cadence occurrences on or after today
}
