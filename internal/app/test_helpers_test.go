package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/example/stride/internal/ports/secondary"
)

// Ensure the mocks implement the secondary ports.
var (
	_ secondary.OccurrenceRepository = (*mockOccurrenceRepository)(nil)
	_ secondary.GoalRepository       = (*mockGoalRepository)(nil)
)

// mockOccurrenceRepository implements secondary.OccurrenceRepository for
// testing. It emulates the store's uniqueness constraint on
// (goal_id, source_tag, date, title) for goal-owned rows and is safe for
// concurrent use, matching the real adapter.
type mockOccurrenceRepository struct {
	mu     sync.Mutex
	rows   []*secondary.OccurrenceRecord
	nextID int64

	insertErr error
	queryErr  error
	deleteErr error
	listErr   error
}

func newMockOccurrenceRepository() *mockOccurrenceRepository {
	return &mockOccurrenceRepository{}
}

func uniqueKey(r *secondary.OccurrenceRecord) string {
	return r.GoalID + "|" + r.SourceTag + "|" + r.Date + "|" + r.Title
}

func (m *mockOccurrenceRepository) BulkInsert(ctx context.Context, rows []*secondary.OccurrenceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}

	existing := make(map[string]bool, len(m.rows))
	for _, r := range m.rows {
		if r.GoalID != "" {
			existing[uniqueKey(r)] = true
		}
	}
	for _, r := range rows {
		if r.GoalID != "" && existing[uniqueKey(r)] {
			return fmt.Errorf("UNIQUE constraint failed: %s", uniqueKey(r))
		}
		if r.GoalID != "" {
			existing[uniqueKey(r)] = true
		}
	}

	for _, r := range rows {
		m.nextID++
		cp := *r
		cp.ID = m.nextID
		m.rows = append(m.rows, &cp)
	}
	return nil
}

func matchesTags(tag string, tags []string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (m *mockOccurrenceRepository) QueryFuture(ctx context.Context, goalID string, sourceTags []string, fromDate string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var out []string
	for _, r := range m.rows {
		if r.GoalID == goalID && matchesTags(r.SourceTag, sourceTags) && r.Date >= fromDate {
			out = append(out, r.Date)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *mockOccurrenceRepository) DeleteFrom(ctx context.Context, goalID string, sourceTags []string, fromDate string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	var kept []*secondary.OccurrenceRecord
	deleted := 0
	for _, r := range m.rows {
		if r.GoalID == goalID && matchesTags(r.SourceTag, sourceTags) && r.Date >= fromDate {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return deleted, nil
}

func (m *mockOccurrenceRepository) ListRange(ctx context.Context, fromDate, toDate string) ([]*secondary.OccurrenceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.OccurrenceRecord
	for _, r := range m.rows {
		if r.Date >= fromDate && r.Date <= toDate {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func (m *mockOccurrenceRepository) ListByGoal(ctx context.Context, goalID string) ([]*secondary.OccurrenceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.OccurrenceRecord
	for _, r := range m.rows {
		if r.GoalID == goalID {
			out = append(out, r)
		}
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(rows []*secondary.OccurrenceRecord) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].ID < rows[j].ID
	})
}

// snapshot returns a stable fingerprint of the stored rows, ignoring IDs, so
// tests can compare store contents across reseeds.
func (m *mockOccurrenceRepository) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, uniqueKey(r))
	}
	sort.Strings(out)
	return out
}

// mockGoalRepository implements secondary.GoalRepository for testing.
type mockGoalRepository struct {
	mu    sync.Mutex
	goals map[string]*secondary.GoalRecord

	createErr error
	getErr    error
	updateErr error
	listErr   error
}

func newMockGoalRepository() *mockGoalRepository {
	return &mockGoalRepository{goals: make(map[string]*secondary.GoalRecord)}
}

func (m *mockGoalRepository) Create(ctx context.Context, goal *secondary.GoalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *goal
	m.goals[goal.ID] = &cp
	return nil
}

func (m *mockGoalRepository) GetByID(ctx context.Context, id string) (*secondary.GoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	goal, ok := m.goals[id]
	if !ok {
		return nil, fmt.Errorf("goal %s not found", id)
	}
	cp := *goal
	return &cp, nil
}

func (m *mockGoalRepository) Update(ctx context.Context, goal *secondary.GoalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.goals[goal.ID]; !ok {
		return fmt.Errorf("goal %s not found", goal.ID)
	}
	cp := *goal
	m.goals[goal.ID] = &cp
	return nil
}

func (m *mockGoalRepository) List(ctx context.Context) ([]*secondary.GoalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.GoalRecord
	for _, g := range m.goals {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockGoalRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("GOAL-%03d", len(m.goals)+1), nil
}
