package sqlite_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/example/stride/internal/adapters/sqlite"
	"github.com/example/stride/internal/ports/secondary"
)

func TestGoalRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGoalRepository(db)
	ctx := context.Background()

	goal := &secondary.GoalRecord{
		ID:           "GOAL-001",
		Title:        "Run a marathon",
		StartDate:    "2025-01-01",
		TargetDate:   "2025-06-01",
		HalfwayDate:  "2025-03-17",
		WeeklySteps:  []string{"long run", "interval session"},
		MonthlySteps: []string{"review training plan"},
	}
	if err := repo.Create(ctx, goal); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "GOAL-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "Run a marathon" || got.HalfwayDate != "2025-03-17" {
		t.Errorf("goal = %+v", got)
	}
	if !reflect.DeepEqual(got.WeeklySteps, []string{"long run", "interval session"}) {
		t.Errorf("WeeklySteps = %v", got.WeeklySteps)
	}
	if got.DailySteps != nil {
		t.Errorf("DailySteps = %v, want nil", got.DailySteps)
	}
	if got.CreatedAt == "" || got.UpdatedAt == "" {
		t.Error("timestamps not populated")
	}
}

func TestGoalRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGoalRepository(db)

	if _, err := repo.GetByID(context.Background(), "GOAL-404"); err == nil {
		t.Error("GetByID for missing goal succeeded, want error")
	}
}

func TestGoalRepository_UpdateReplacesSteps(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGoalRepository(db)
	ctx := context.Background()
	seedGoal(t, db, "GOAL-001", "Test Goal")

	goal, err := repo.GetByID(ctx, "GOAL-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	goal.DailySteps = []string{"stretch"}
	goal.WeeklySteps = []string{"long run"}
	if err := repo.Update(ctx, goal); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// A second save replaces, never merges.
	goal.WeeklySteps = []string{"swim"}
	goal.DailySteps = nil
	if err := repo.Update(ctx, goal); err != nil {
		t.Fatalf("second Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "GOAL-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !reflect.DeepEqual(got.WeeklySteps, []string{"swim"}) {
		t.Errorf("WeeklySteps = %v, want [swim]", got.WeeklySteps)
	}
	if got.DailySteps != nil {
		t.Errorf("DailySteps = %v, want cleared", got.DailySteps)
	}
}

func TestGoalRepository_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGoalRepository(db)

	err := repo.Update(context.Background(), &secondary.GoalRecord{ID: "GOAL-404", Title: "ghost"})
	if err == nil {
		t.Error("Update for missing goal succeeded, want error")
	}
}

func TestGoalRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGoalRepository(db)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "GOAL-001" {
		t.Errorf("first ID = %q, want GOAL-001", id)
	}

	seedGoal(t, db, "GOAL-001", "")
	seedGoal(t, db, "GOAL-007", "")

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "GOAL-008" {
		t.Errorf("next ID = %q, want GOAL-008", id)
	}
}

func TestGoalRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewGoalRepository(db)
	ctx := context.Background()

	seedGoal(t, db, "GOAL-001", "First")
	seedGoal(t, db, "GOAL-002", "Second")

	goals, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("List returned %d goals, want 2", len(goals))
	}
	if goals[0].ID != "GOAL-001" || goals[1].ID != "GOAL-002" {
		t.Errorf("order = %s, %s", goals[0].ID, goals[1].ID)
	}
}
