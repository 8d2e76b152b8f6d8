// Package primary defines the primary ports (driving interfaces) for the
// application. The CLI and any other consumer talk to the scheduling core
// through these.
package primary

import (
	"context"

	"github.com/example/stride/internal/core/dates"
	"github.com/example/stride/internal/core/extract"
)

// EntryService defines the primary port for free-text entry operations.
type EntryService interface {
	// AddEntry parses one line of free text against a reference date and
	// persists the resulting occurrences.
	AddEntry(ctx context.Context, req AddEntryRequest) (*AddEntryResponse, error)

	// Agenda lists all stored occurrences in an inclusive date range.
	Agenda(ctx context.Context, req AgendaRequest) ([]*Occurrence, error)
}

// AddEntryRequest contains parameters for adding a free-text entry.
// ReferenceDate stands in for "today": the caller resolves the clock once
// at the boundary and the core stays deterministic.
type AddEntryRequest struct {
	Text          string
	ReferenceDate dates.Date
}

// AddEntryResponse contains the result of adding an entry.
type AddEntryResponse struct {
	Title       string
	Category    extract.Category
	Priority    extract.Priority
	Occurrences []dates.Date
	Inserted    int
}

// AgendaRequest bounds an agenda listing.
type AgendaRequest struct {
	From dates.Date
	To   dates.Date
}

// Occurrence is one stored task occurrence as presented to consumers.
type Occurrence struct {
	ID        int64
	GoalID    string
	Title     string
	Date      dates.Date
	SourceTag string
	Category  string
	Priority  int
}
