package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/example/stride/internal/core/cadence"
	"github.com/example/stride/internal/core/dates"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/ports/secondary"
)

// ReseedPhase identifies which step of the delete-then-insert sequence
// failed, so callers can judge whether a retry is safe.
type ReseedPhase string

// Reseed phases.
const (
	PhaseLoad   ReseedPhase = "load"   // reading the goal plan
	PhaseQuery  ReseedPhase = "query"  // reading existing occurrences
	PhaseDelete ReseedPhase = "delete" // removing the future window
	PhaseInsert ReseedPhase = "insert" // writing the regenerated window
)

// ReseedError reports a failed reseed attempt. Retrying after a failed load,
// query or delete is idempotent; retrying after a partial insert relies on
// the store's uniqueness constraint on (goal_id, source_tag, date, title) to
// avoid duplicates.
type ReseedError struct {
	GoalID string
	Phase  ReseedPhase
	Err    error
}

func (e *ReseedError) Error() string {
	return fmt.Sprintf("reseed of %s failed during %s: %v", e.GoalID, e.Phase, e.Err)
}

func (e *ReseedError) Unwrap() error { return e.Err }

// GoalServiceImpl implements the GoalService interface. Reseeds of the same
// goal are serialized behind a per-goal mutex so two concurrent reseeds
// cannot each delete the other's freshly inserted rows; different goals
// proceed in parallel.
type GoalServiceImpl struct {
	goalRepo       secondary.GoalRepository
	occurrenceRepo secondary.OccurrenceRepository

	mu        sync.Mutex
	goalLocks map[string]*sync.Mutex
}

// NewGoalService creates a new GoalService with injected dependencies.
func NewGoalService(goalRepo secondary.GoalRepository, occurrenceRepo secondary.OccurrenceRepository) *GoalServiceImpl {
	return &GoalServiceImpl{
		goalRepo:       goalRepo,
		occurrenceRepo: occurrenceRepo,
		goalLocks:      make(map[string]*sync.Mutex),
	}
}

func (s *GoalServiceImpl) lockFor(goalID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.goalLocks[goalID]
	if !ok {
		lock = &sync.Mutex{}
		s.goalLocks[goalID] = lock
	}
	return lock
}

// CreateGoal creates a goal, fixes its halfway checkpoint and writes the two
// milestone occurrences. Milestones are written once, here; reseeds never
// touch them.
func (s *GoalServiceImpl) CreateGoal(ctx context.Context, req primary.CreateGoalRequest) (*primary.CreateGoalResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("goal title cannot be empty")
	}

	goalID, err := s.goalRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate goal ID: %w", err)
	}

	plan, err := cadence.NewPlan(goalID, title, req.StartDate, req.TargetDate)
	if err != nil {
		return nil, err
	}

	record := &secondary.GoalRecord{
		ID:          goalID,
		Title:       title,
		StartDate:   plan.StartDate.String(),
		TargetDate:  plan.TargetDate.String(),
		HalfwayDate: plan.HalfwayDate.String(),
	}
	if err := s.goalRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	milestones := cadence.Milestones(plan)
	rows := make([]*secondary.OccurrenceRecord, 0, len(milestones))
	for _, m := range milestones {
		rows = append(rows, &secondary.OccurrenceRecord{
			GoalID:    goalID,
			Title:     m.Title,
			Date:      m.Date.String(),
			SourceTag: m.SourceTag,
		})
	}
	if err := s.occurrenceRepo.BulkInsert(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store goal milestones: %w", err)
	}

	return &primary.CreateGoalResponse{GoalID: goalID, Goal: planToGoal(plan)}, nil
}

// GetGoal retrieves a goal's plan.
func (s *GoalServiceImpl) GetGoal(ctx context.Context, goalID string) (*primary.Goal, error) {
	plan, err := s.loadPlan(ctx, goalID)
	if err != nil {
		return nil, err
	}
	return planToGoal(plan), nil
}

// ListGoals lists all goals.
func (s *GoalServiceImpl) ListGoals(ctx context.Context) ([]*primary.Goal, error) {
	records, err := s.goalRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	out := make([]*primary.Goal, 0, len(records))
	for _, r := range records {
		plan, err := recordToPlan(r)
		if err != nil {
			return nil, err
		}
		out = append(out, planToGoal(plan))
	}
	return out, nil
}

// SaveSteps replaces the goal's cadence step lists wholesale and reseeds the
// future window. Steps are replaced, never merged: the saved lists are the
// plan.
func (s *GoalServiceImpl) SaveSteps(ctx context.Context, req primary.SaveStepsRequest) (*primary.ReseedResponse, error) {
	record, err := s.goalRepo.GetByID(ctx, req.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}

	record.MonthlySteps = cleanSteps(req.MonthlySteps)
	record.WeeklySteps = cleanSteps(req.WeeklySteps)
	record.DailySteps = cleanSteps(req.DailySteps)
	if err := s.goalRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save steps: %w", err)
	}

	return s.Reseed(ctx, req.GoalID, req.Today)
}

// cleanSteps trims whitespace and drops empty step descriptions while
// preserving order.
func cleanSteps(steps []string) []string {
	var out []string
	for _, s := range steps {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Reseed regenerates the goal's future cadence occurrences. The delete and
// insert are presented to the store as replacing exactly the window
// [today, target]: history and milestones are never part of either
// operation, which is what makes the reseed idempotent.
func (s *GoalServiceImpl) Reseed(ctx context.Context, goalID string, today dates.Date) (*primary.ReseedResponse, error) {
	lock := s.lockFor(goalID)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.loadPlan(ctx, goalID)
	if err != nil {
		return nil, &ReseedError{GoalID: goalID, Phase: PhaseLoad, Err: err}
	}

	deleted, err := s.occurrenceRepo.DeleteFrom(ctx, goalID, cadence.StepSources(), today.String())
	if err != nil {
		return nil, &ReseedError{GoalID: goalID, Phase: PhaseDelete, Err: err}
	}

	planned := cadence.BuildSeed(plan, today)
	rows := make([]*secondary.OccurrenceRecord, 0, len(planned))
	for _, p := range planned {
		rows = append(rows, &secondary.OccurrenceRecord{
			GoalID:    goalID,
			Title:     p.Title,
			Date:      p.Date.String(),
			SourceTag: p.SourceTag,
		})
	}
	if err := s.occurrenceRepo.BulkInsert(ctx, rows); err != nil {
		return nil, &ReseedError{GoalID: goalID, Phase: PhaseInsert, Err: err}
	}

	return &primary.ReseedResponse{GoalID: goalID, Deleted: deleted, Inserted: len(rows)}, nil
}

// CheckAndReseed runs the zero-future-occurrence safety check and reseeds
// when it trips. Returns nil when the goal needs nothing.
func (s *GoalServiceImpl) CheckAndReseed(ctx context.Context, goalID string, today dates.Date) (*primary.ReseedResponse, error) {
	plan, err := s.loadPlan(ctx, goalID)
	if err != nil {
		return nil, &ReseedError{GoalID: goalID, Phase: PhaseLoad, Err: err}
	}

	future, err := s.occurrenceRepo.QueryFuture(ctx, goalID, cadence.StepSources(), today.String())
	if err != nil {
		return nil, &ReseedError{GoalID: goalID, Phase: PhaseQuery, Err: err}
	}

	if !cadence.NeedsAutoReseed(plan, today, len(future)) {
		return nil, nil
	}
	return s.Reseed(ctx, goalID, today)
}

// Status reports the goal's lifecycle state as of today.
func (s *GoalServiceImpl) Status(ctx context.Context, goalID string, today dates.Date) (*primary.GoalStatus, error) {
	plan, err := s.loadPlan(ctx, goalID)
	if err != nil {
		return nil, err
	}

	future, err := s.occurrenceRepo.QueryFuture(ctx, goalID, cadence.StepSources(), today.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query future occurrences: %w", err)
	}

	return &primary.GoalStatus{
		Goal:            planToGoal(plan),
		State:           plan.StateAt(today),
		InHalfwayWindow: plan.InHalfwayWindow(today),
		FutureCadence:   len(future),
	}, nil
}

func (s *GoalServiceImpl) loadPlan(ctx context.Context, goalID string) (cadence.Plan, error) {
	record, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return cadence.Plan{}, fmt.Errorf("failed to load goal: %w", err)
	}
	return recordToPlan(record)
}

func recordToPlan(r *secondary.GoalRecord) (cadence.Plan, error) {
	start, err := dates.Parse(r.StartDate)
	if err != nil {
		return cadence.Plan{}, fmt.Errorf("goal %s has invalid start date: %w", r.ID, err)
	}
	target, err := dates.Parse(r.TargetDate)
	if err != nil {
		return cadence.Plan{}, fmt.Errorf("goal %s has invalid target date: %w", r.ID, err)
	}
	halfway, err := dates.Parse(r.HalfwayDate)
	if err != nil {
		return cadence.Plan{}, fmt.Errorf("goal %s has invalid halfway date: %w", r.ID, err)
	}
	return cadence.Plan{
		GoalID:       r.ID,
		GoalTitle:    r.Title,
		StartDate:    start,
		TargetDate:   target,
		HalfwayDate:  halfway,
		MonthlySteps: r.MonthlySteps,
		WeeklySteps:  r.WeeklySteps,
		DailySteps:   r.DailySteps,
	}, nil
}

func planToGoal(p cadence.Plan) *primary.Goal {
	return &primary.Goal{
		ID:           p.GoalID,
		Title:        p.GoalTitle,
		StartDate:    p.StartDate,
		TargetDate:   p.TargetDate,
		HalfwayDate:  p.HalfwayDate,
		MonthlySteps: p.MonthlySteps,
		WeeklySteps:  p.WeeklySteps,
		DailySteps:   p.DailySteps,
	}
}
