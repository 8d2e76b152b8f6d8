// Package app implements the primary ports by orchestrating the functional
// core against the secondary ports. This is the only layer with side
// effects: the store is the single source of truth for what exists.
package app

import (
	"context"
	"fmt"

	"github.com/example/stride/internal/core/dates"
	"github.com/example/stride/internal/core/extract"
	"github.com/example/stride/internal/ports/primary"
	"github.com/example/stride/internal/ports/secondary"
)

// EntryServiceImpl implements the EntryService interface.
type EntryServiceImpl struct {
	occurrenceRepo secondary.OccurrenceRepository
}

// NewEntryService creates a new EntryService with injected dependencies.
func NewEntryService(occurrenceRepo secondary.OccurrenceRepository) *EntryServiceImpl {
	return &EntryServiceImpl{occurrenceRepo: occurrenceRepo}
}

// AddEntry parses one line of free text and persists the resulting
// occurrences. A malformed entry is rejected with the extractor's reason;
// nothing is written in that case.
func (s *EntryServiceImpl) AddEntry(ctx context.Context, req primary.AddEntryRequest) (*primary.AddEntryResponse, error) {
	if req.ReferenceDate.IsZero() {
		return nil, fmt.Errorf("reference date is required")
	}

	entry, err := extract.Extract(req.Text, req.ReferenceDate)
	if err != nil {
		return nil, err
	}

	rows := make([]*secondary.OccurrenceRecord, 0, len(entry.Occurrences))
	for _, d := range entry.Occurrences {
		rows = append(rows, &secondary.OccurrenceRecord{
			Title:     entry.Title,
			Date:      d.String(),
			SourceTag: entry.SourceTag,
			Category:  string(entry.Category),
			Priority:  int(entry.Priority),
		})
	}

	if err := s.occurrenceRepo.BulkInsert(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store entry occurrences: %w", err)
	}

	return &primary.AddEntryResponse{
		Title:       entry.Title,
		Category:    entry.Category,
		Priority:    entry.Priority,
		Occurrences: entry.Occurrences,
		Inserted:    len(rows),
	}, nil
}

// Agenda lists stored occurrences in an inclusive date range.
func (s *EntryServiceImpl) Agenda(ctx context.Context, req primary.AgendaRequest) ([]*primary.Occurrence, error) {
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("agenda range end %s is before start %s", req.To, req.From)
	}

	records, err := s.occurrenceRepo.ListRange(ctx, req.From.String(), req.To.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrences: %w", err)
	}

	out := make([]*primary.Occurrence, 0, len(records))
	for _, r := range records {
		occ, err := recordToOccurrence(r)
		if err != nil {
			return nil, err
		}
		out = append(out, occ)
	}
	return out, nil
}

func recordToOccurrence(r *secondary.OccurrenceRecord) (*primary.Occurrence, error) {
	d, err := dates.Parse(r.Date)
	if err != nil {
		return nil, fmt.Errorf("stored occurrence %d has invalid date: %w", r.ID, err)
	}
	return &primary.Occurrence{
		ID:        r.ID,
		GoalID:    r.GoalID,
		Title:     r.Title,
		Date:      d,
		SourceTag: r.SourceTag,
		Category:  r.Category,
		Priority:  r.Priority,
	}, nil
}
