// Package recur contains the recurrence rule model and occurrence generator.
// This is part of the Functional Core - no I/O, only pure functions.
//
// A Rule is constructed through FixedCount, Interval or WeekdaySet and is
// valid by construction; Generate never fails at call time. Every rule
// expands to a finite sequence: a hard safety cap of MaxOccurrences applies
// before any requested bound.
package recur

import (
	"fmt"
	"sort"

	"github.com/example/stride/internal/core/dates"
)

// MaxOccurrences is the hard safety cap on any single expansion. It bounds
// worst-case work from malformed or adversarial input regardless of the
// bound a rule carries.
const MaxOccurrences = 104

// Frequency is the step unit for interval and fixed-count rules.
type Frequency string

// Supported frequencies.
const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Monthly  Frequency = "monthly"
	Annually Frequency = "annually"
)

// defaultCounts is the built-in occurrence count used when a rule carries
// neither a count nor an until bound.
var defaultCounts = map[Frequency]int{
	Daily:    14,
	Weekly:   12,
	Monthly:  12,
	Annually: 5,
}

// defaultWeekdaySetCount bounds an unbounded weekday-set rule.
const defaultWeekdaySetCount = 24

// Kind discriminates the rule variants.
type Kind string

// Rule variants.
const (
	KindFixedCount Kind = "fixed-count"
	KindInterval   Kind = "interval"
	KindWeekdaySet Kind = "weekday-set"
)

// Bound is an optional end bound for a rule. The zero value means "no
// explicit bound" and the variant's default count applies. Count and Until
// may be combined; expansion stops at whichever is hit first.
type Bound struct {
	Count int        // maximum occurrences; 0 = unset
	Until dates.Date // last admissible date, inclusive; zero = unset
}

// Count returns a pure count bound.
func Count(n int) Bound { return Bound{Count: n} }

// Until returns a pure until-date bound.
func Until(d dates.Date) Bound { return Bound{Until: d} }

// ConstructionError reports an invalid rule definition. Rules reject bad
// input at construction so that Generate never has to.
type ConstructionError struct {
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid recurrence rule: %s", e.Reason)
}

// Rule is a validated recurrence rule. The zero value expands to nothing.
type Rule struct {
	kind  Kind
	freq  Frequency
	every int
	days  []dates.Weekday
	bound Bound
}

// Kind returns the rule variant.
func (r Rule) Kind() Kind { return r.kind }

// Frequency returns the step unit for fixed-count and interval rules.
func (r Rule) Frequency() Frequency { return r.freq }

// Every returns the step multiplier for interval rules (1 for fixed-count).
func (r Rule) Every() int { return r.every }

// Days returns the weekday set for weekday-set rules, sorted ascending.
func (r Rule) Days() []dates.Weekday {
	out := make([]dates.Weekday, len(r.days))
	copy(out, r.days)
	return out
}

// Bound returns the rule's end bound.
func (r Rule) Bound() Bound { return r.bound }

func validFrequency(f Frequency) bool {
	_, ok := defaultCounts[f]
	return ok
}

// FixedCount builds a rule that steps by freq for the frequency's built-in
// default count, starting at the anchor inclusive.
func FixedCount(freq Frequency) (Rule, error) {
	if !validFrequency(freq) {
		return Rule{}, &ConstructionError{Reason: fmt.Sprintf("unknown frequency %q", freq)}
	}
	return Rule{kind: KindFixedCount, freq: freq, every: 1}, nil
}

// Interval builds a rule that steps by every units of freq. A non-positive
// interval is rejected outright rather than clamped: a zero step would never
// advance and only the safety cap would terminate it.
func Interval(freq Frequency, every int, bound Bound) (Rule, error) {
	if !validFrequency(freq) {
		return Rule{}, &ConstructionError{Reason: fmt.Sprintf("unknown frequency %q", freq)}
	}
	if every <= 0 {
		return Rule{}, &ConstructionError{Reason: fmt.Sprintf("interval must be positive, got %d", every)}
	}
	if bound.Count < 0 {
		return Rule{}, &ConstructionError{Reason: fmt.Sprintf("count bound must be positive, got %d", bound.Count)}
	}
	return Rule{kind: KindInterval, freq: freq, every: every, bound: bound}, nil
}

// WeekdaySet builds a rule that walks forward one day at a time from the
// anchor, emitting dates whose weekday is in days.
func WeekdaySet(days []dates.Weekday, bound Bound) (Rule, error) {
	if len(days) == 0 {
		return Rule{}, &ConstructionError{Reason: "weekday set is empty"}
	}
	if bound.Count < 0 {
		return Rule{}, &ConstructionError{Reason: fmt.Sprintf("count bound must be positive, got %d", bound.Count)}
	}
	seen := make(map[dates.Weekday]bool, len(days))
	var normalized []dates.Weekday
	for _, d := range days {
		if d < dates.Monday || d > dates.Sunday {
			return Rule{}, &ConstructionError{Reason: fmt.Sprintf("invalid weekday %d", d)}
		}
		if !seen[d] {
			seen[d] = true
			normalized = append(normalized, d)
		}
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i] < normalized[j] })
	return Rule{kind: KindWeekdaySet, days: normalized, bound: bound}, nil
}

// Generate expands a rule from an anchor date into an ordered, de-duplicated
// sequence of at most MaxOccurrences dates. It is pure and deterministic and
// never fails: invalid rules cannot be constructed, and a zero rule expands
// to nothing. An until bound earlier than the anchor yields zero dates.
func Generate(rule Rule, anchor dates.Date) []dates.Date {
	var out []dates.Date
	switch rule.kind {
	case KindFixedCount, KindInterval:
		out = generateStepped(rule, anchor)
	case KindWeekdaySet:
		out = generateWeekdaySet(rule, anchor)
	default:
		return nil
	}
	return normalize(out)
}

// occurrenceLimit resolves the effective count limit for a rule: the safety
// cap, tightened by an explicit count or by the variant default when the
// rule is otherwise unbounded.
func occurrenceLimit(rule Rule) int {
	limit := MaxOccurrences
	switch {
	case rule.bound.Count > 0:
		if rule.bound.Count < limit {
			limit = rule.bound.Count
		}
	case rule.bound.Until.IsZero():
		def := defaultWeekdaySetCount
		if rule.kind != KindWeekdaySet {
			def = defaultCounts[rule.freq]
		}
		if def < limit {
			limit = def
		}
	}
	return limit
}

// generateStepped handles fixed-count and interval rules. Each date is
// computed from the anchor by an index multiplier, not from the previous
// emitted date, so monthly steps reclamp from the anchor's original
// day-of-month and never drift after hitting a short month.
func generateStepped(rule Rule, anchor dates.Date) []dates.Date {
	limit := occurrenceLimit(rule)
	until := rule.bound.Until

	out := make([]dates.Date, 0, limit)
	for i := 0; len(out) < limit; i++ {
		var cur dates.Date
		steps := rule.every * i
		switch rule.freq {
		case Daily:
			cur = anchor.AddDays(steps)
		case Weekly:
			cur = anchor.AddWeeks(steps)
		case Monthly:
			cur = anchor.AddMonthsClamped(steps, anchor.Day)
		case Annually:
			cur = anchor.AddYears(steps)
		}
		// Inclusive-then-stop: the first date strictly after the until
		// bound is not emitted and terminates the run.
		if !until.IsZero() && cur.After(until) {
			break
		}
		out = append(out, cur)
	}
	return out
}

// generateWeekdaySet walks one calendar day at a time from the anchor,
// emitting matching weekdays until the count limit or until bound is hit.
func generateWeekdaySet(rule Rule, anchor dates.Date) []dates.Date {
	limit := occurrenceLimit(rule)
	until := rule.bound.Until

	set := make(map[dates.Weekday]bool, len(rule.days))
	for _, d := range rule.days {
		set[d] = true
	}

	out := make([]dates.Date, 0, limit)
	for cur := anchor; len(out) < limit; cur = cur.AddDays(1) {
		if !until.IsZero() && cur.After(until) {
			break
		}
		if set[cur.Weekday()] {
			out = append(out, cur)
		}
	}
	return out
}

// normalize sorts ascending and drops duplicate dates.
func normalize(seq []dates.Date) []dates.Date {
	if len(seq) == 0 {
		return seq
	}
	sort.Slice(seq, func(i, j int) bool { return seq[i].Before(seq[j]) })
	out := seq[:1]
	for _, d := range seq[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}
