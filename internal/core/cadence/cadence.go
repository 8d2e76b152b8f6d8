// Package cadence contains the pure planning logic for goal cadences.
// This is part of the Functional Core - no I/O, only pure functions.
//
// A Plan describes the recurring step commitments of one long-running goal.
// The package computes goal state, the halfway checkpoint, and the exact set
// of task occurrences a reseed should write; the app layer owns the store
// side effects.
package cadence

import (
	"fmt"

	"github.com/example/stride/internal/core/dates"
)

// Source tags scope store queries and deletes to generator-owned rows, so a
// reseed can never touch manually created entries.
const (
	SourceDaily   = "cadence-daily"
	SourceWeekly  = "cadence-weekly"
	SourceMonthly = "cadence-monthly"

	SourceMilestoneHalfway = "milestone-halfway"
	SourceMilestoneTarget  = "milestone-target"
)

// StepSources returns the cadence-bucket source tags, the only tags a
// reseed is allowed to delete.
func StepSources() []string {
	return []string{SourceMonthly, SourceWeekly, SourceDaily}
}

// MilestoneSources returns the milestone marker tags. Milestones are written
// once at goal creation and are never part of a reseed window.
func MilestoneSources() []string {
	return []string{SourceMilestoneHalfway, SourceMilestoneTarget}
}

// State is the lifecycle state of a goal on a given day.
type State string

// Goal lifecycle states.
const (
	StatePlanning    State = "planning"     // no steps saved yet
	StateActive      State = "active"       // steps saved, before halfway
	StatePastHalfway State = "past-halfway" // today is on or after the halfway date
	StateCompleted   State = "completed"    // today is past the target date
)

// Plan holds one goal's cadence configuration. Steps are ordered free-text
// descriptions per frequency bucket; saving a plan replaces them wholesale,
// it never merges.
type Plan struct {
	GoalID      string
	GoalTitle   string
	StartDate   dates.Date
	TargetDate  dates.Date
	HalfwayDate dates.Date // floor midpoint, fixed at goal creation

	MonthlySteps []string
	WeeklySteps  []string
	DailySteps   []string
}

// NewPlan creates a plan for a goal running from start to target and fixes
// the halfway checkpoint as the floor of the midpoint. The halfway date is
// stored, not recomputed, so later edits to steps cannot move it.
func NewPlan(goalID, goalTitle string, start, target dates.Date) (Plan, error) {
	if !target.After(start) {
		return Plan{}, fmt.Errorf("target date %s must be after start date %s", target, start)
	}
	return Plan{
		GoalID:      goalID,
		GoalTitle:   goalTitle,
		StartDate:   start,
		TargetDate:  target,
		HalfwayDate: start.AddDays(dates.DaysBetween(start, target) / 2),
	}, nil
}

// HasSteps reports whether any cadence bucket holds at least one non-empty
// step.
func (p Plan) HasSteps() bool {
	for _, steps := range [][]string{p.MonthlySteps, p.WeeklySteps, p.DailySteps} {
		for _, s := range steps {
			if s != "" {
				return true
			}
		}
	}
	return false
}

// StateAt returns the goal's lifecycle state as of today.
func (p Plan) StateAt(today dates.Date) State {
	switch {
	case today.After(p.TargetDate):
		return StateCompleted
	case !p.HasSteps():
		return StatePlanning
	case !today.Before(p.HalfwayDate):
		return StatePastHalfway
	default:
		return StateActive
	}
}

// InHalfwayWindow reports whether today falls in [halfway, target]. Whether
// a halfway notice has already been shown is the caller's concern; this
// only computes the window.
func (p Plan) InHalfwayWindow(today dates.Date) bool {
	return !today.Before(p.HalfwayDate) && !today.After(p.TargetDate)
}

// NeedsAutoReseed reports whether the safety check should trigger a reseed:
// the goal sits between halfway and target yet no future cadence occurrence
// exists on or after today.
func NeedsAutoReseed(p Plan, today dates.Date, futureCadenceCount int) bool {
	return futureCadenceCount == 0 && p.HasSteps() && p.InHalfwayWindow(today)
}

// PlannedOccurrence is one task occurrence a seed run should insert.
type PlannedOccurrence struct {
	Title     string
	Date      dates.Date
	SourceTag string
}

// Milestones returns the halfway and target marker occurrences. They are
// written once when the goal is created; reseeds leave them untouched.
func Milestones(p Plan) []PlannedOccurrence {
	return []PlannedOccurrence{
		{Title: fmt.Sprintf("Halfway checkpoint: %s", p.GoalTitle), Date: p.HalfwayDate, SourceTag: SourceMilestoneHalfway},
		{Title: fmt.Sprintf("Target: %s", p.GoalTitle), Date: p.TargetDate, SourceTag: SourceMilestoneTarget},
	}
}

// BuildSeed computes the occurrences to insert for the window [from,
// target]. Every bucket's series is anchored at the goal's start date -
// monthly steps reclamp from the start date's day-of-month, weekly steps
// advance by whole weeks from the start - so a reseed in the middle of a
// month stays in phase with the original cadence instead of restarting it
// from the reseed day.
func BuildSeed(p Plan, from dates.Date) []PlannedOccurrence {
	from = dates.Max(from, p.StartDate)
	if from.After(p.TargetDate) {
		return nil
	}

	var out []PlannedOccurrence
	emit := func(steps []string, seriesDates []dates.Date, source string) {
		for _, d := range seriesDates {
			for _, step := range steps {
				if step == "" {
					continue
				}
				out = append(out, PlannedOccurrence{Title: step, Date: d, SourceTag: source})
			}
		}
	}

	emit(p.MonthlySteps, monthlySeries(p.StartDate, from, p.TargetDate), SourceMonthly)
	emit(p.WeeklySteps, weeklySeries(p.StartDate, from, p.TargetDate), SourceWeekly)
	emit(p.DailySteps, dailySeries(from, p.TargetDate), SourceDaily)
	return out
}

// monthlySeries yields the dates of the monthly cadence anchored at start,
// restricted to [from, target]. Each step reclamps from start's original
// day-of-month.
func monthlySeries(start, from, target dates.Date) []dates.Date {
	var out []dates.Date
	for i := 0; ; i++ {
		d := start.AddMonthsClamped(i, start.Day)
		if d.After(target) {
			break
		}
		if d.Before(from) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// weeklySeries yields the weekly cadence anchored at start within [from,
// target]: the weeks elapsed since start are skipped, not replayed.
func weeklySeries(start, from, target dates.Date) []dates.Date {
	first := start
	if offset := dates.DaysBetween(start, from); offset > 0 {
		weeks := (offset + 6) / 7 // first anchored week on or after from
		first = start.AddWeeks(weeks)
	}
	var out []dates.Date
	for d := first; !d.After(target); d = d.AddWeeks(1) {
		out = append(out, d)
	}
	return out
}

// dailySeries yields every day of [from, target].
func dailySeries(from, target dates.Date) []dates.Date {
	var out []dates.Date
	for d := from; !d.After(target); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}
