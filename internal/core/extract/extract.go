// Package extract parses a single line of free text into a scheduled entry.
// This is part of the Functional Core - no I/O, only pure functions.
//
// Extraction runs as an ordered pipeline of stages, each consuming its
// matched substring from the working text before the next stage runs:
//
//  1. category tag   (#health, #work, ...)
//  2. priority tag   (!high, !top, !normal, !low)
//  3. recurrence clause (from the first standalone "every" to end of text)
//  4. anchor date    (ISO, D/M, day+month name, relative keyword, "in N ...")
//
// The recurrence clause is split off before anchor resolution so that a
// date inside an "until" bound can never be mistaken for the anchor. What
// remains after all stages, whitespace-collapsed, is the title.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/stride/internal/core/dates"
	"github.com/example/stride/internal/core/recur"
)

// SourceQuickEntry tags task occurrences created from free-text entries,
// distinguishing them from cadence-generated and milestone rows.
const SourceQuickEntry = "quick-entry"

// Category is a closed set of entry categories selectable with a #tag.
type Category string

// Recognized categories.
const (
	CategoryHealth Category = "health"
	CategoryWork   Category = "work"
	CategoryHome   Category = "home"
	CategoryFamily Category = "family"
	CategoryMoney  Category = "money"
	CategoryStudy  Category = "study"
	CategorySocial Category = "social"
)

// Priority is the entry priority: 1=high, 2=normal, 3=low. Zero means the
// entry carried no priority tag.
type Priority int

// Priority levels.
const (
	PriorityHigh   Priority = 1
	PriorityNormal Priority = 2
	PriorityLow    Priority = 3
)

// Entry is the extractor output: a cleaned title plus everything the tags
// and clauses of the raw text selected.
type Entry struct {
	Title       string
	Category    Category // empty when no category tag was present
	Priority    Priority // zero when no priority tag was present
	Occurrences []dates.Date
	SourceTag   string
}

// Error reports a malformed entry. The entry is rejected with a reason;
// the extractor never falls back to a fabricated title or date.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot parse entry: %s", e.Reason)
}

// parseState carries the working text and accumulated fields through the
// stage pipeline.
type parseState struct {
	text      string
	reference dates.Date

	category Category
	priority Priority
	anchor   dates.Date
	rule     recur.Rule
	hasRule  bool
}

// stage is one extraction step. It inspects the working text, records what
// it matched, and removes the matched substring.
type stage interface {
	extract(p *parseState) error
}

// stages run in fixed precedence order; each removes its match before the
// next stage sees the text.
var stages = []stage{
	categoryStage{},
	priorityStage{},
	recurrenceStage{},
	anchorStage{},
}

// Extract parses raw free text against a reference date (the caller's
// "today" or currently selected calendar day). It is pure: the reference
// date is explicit and no clock is consulted.
func Extract(raw string, reference dates.Date) (Entry, error) {
	p := &parseState{text: raw, reference: reference, anchor: reference}

	for _, s := range stages {
		if err := s.extract(p); err != nil {
			return Entry{}, err
		}
	}

	title := strings.Join(strings.Fields(p.text), " ")
	if title == "" {
		return Entry{}, &Error{Reason: "entry has no title after removing tags"}
	}

	var occurrences []dates.Date
	if p.hasRule {
		occurrences = recur.Generate(p.rule, p.anchor)
		if len(occurrences) == 0 {
			return Entry{}, &Error{Reason: "recurrence yields no occurrences (until-date before anchor?)"}
		}
	} else {
		occurrences = []dates.Date{p.anchor}
	}

	return Entry{
		Title:       title,
		Category:    p.category,
		Priority:    p.priority,
		Occurrences: occurrences,
		SourceTag:   SourceQuickEntry,
	}, nil
}

// ---------------------------------------------------------------------------
// Stage 1: category tag
// ---------------------------------------------------------------------------

var categoryPattern = regexp.MustCompile(`(?i)(^|\s)#(health|work|home|family|money|study|social)\b`)

type categoryStage struct{}

func (categoryStage) extract(p *parseState) error {
	loc := categoryPattern.FindStringSubmatchIndex(p.text)
	if loc == nil {
		return nil
	}
	name := strings.ToLower(p.text[loc[4]:loc[5]])
	p.category = Category(name)
	p.text = p.text[:loc[0]] + " " + p.text[loc[1]:]
	return nil
}

// ---------------------------------------------------------------------------
// Stage 2: priority tag
// ---------------------------------------------------------------------------

var priorityPattern = regexp.MustCompile(`(?i)(^|\s)!(high|top|normal|low)\b`)

type priorityStage struct{}

func (priorityStage) extract(p *parseState) error {
	loc := priorityPattern.FindStringSubmatchIndex(p.text)
	if loc == nil {
		return nil
	}
	switch strings.ToLower(p.text[loc[4]:loc[5]]) {
	case "high", "top":
		p.priority = PriorityHigh
	case "normal":
		p.priority = PriorityNormal
	case "low":
		p.priority = PriorityLow
	}
	p.text = p.text[:loc[0]] + " " + p.text[loc[1]:]
	return nil
}

// ---------------------------------------------------------------------------
// Stage 3: recurrence clause
// ---------------------------------------------------------------------------

var (
	everyPattern    = regexp.MustCompile(`(?i)(?:^|\s)(every)\b`)
	forTimesPattern = regexp.MustCompile(`(?i)\bfor\s+(\d+)\s+times?\b`)
	untilPattern    = regexp.MustCompile(`(?i)\buntil\b`)
	numUnitPattern  = regexp.MustCompile(`(?i)^(\d+)\s+(day|week|month|year)s?$`)
	unitPattern     = regexp.MustCompile(`(?i)^(?:(day|week|month|year)s?|(daily)|(weekly)|(monthly)|(yearly|annually))$`)
)

type recurrenceStage struct{}

func (recurrenceStage) extract(p *parseState) error {
	loc := everyPattern.FindStringSubmatchIndex(p.text)
	if loc == nil {
		return nil
	}

	// Everything from the standalone "every" to the end of the text is the
	// recurrence clause; the title keeps only what precedes it.
	clause := strings.TrimSpace(p.text[loc[3]:]) // after "every"
	p.text = p.text[:loc[0]]

	bound, clause, err := parseBound(clause, p.reference)
	if err != nil {
		return err
	}

	rule, err := parseRule(clause, bound)
	if err != nil {
		return err
	}

	p.rule = rule
	p.hasRule = true
	return nil
}

// parseBound extracts "until <date>" and "for N times" from the clause and
// returns the remaining clause text.
func parseBound(clause string, reference dates.Date) (recur.Bound, string, error) {
	var bound recur.Bound

	if loc := untilPattern.FindStringIndex(clause); loc != nil {
		rest := clause[loc[1]:]
		until, remainder, ok, err := matchDate(rest, reference)
		if err != nil {
			return bound, "", err
		}
		if !ok {
			return bound, "", &Error{Reason: fmt.Sprintf("no recognizable date after %q", strings.TrimSpace(clause[loc[0]:loc[1]]))}
		}
		bound.Until = until
		clause = strings.TrimSpace(clause[:loc[0]] + " " + remainder)
	}

	if m := forTimesPattern.FindStringSubmatchIndex(clause); m != nil {
		n, err := strconv.Atoi(clause[m[2]:m[3]])
		if err != nil || n <= 0 {
			return bound, "", &Error{Reason: fmt.Sprintf("occurrence count must be positive, got %q", clause[m[2]:m[3]])}
		}
		bound.Count = n
		clause = strings.TrimSpace(clause[:m[0]] + " " + clause[m[1]:])
	}

	return bound, clause, nil
}

// parseRule interprets what remains of an "every ..." clause: a weekday
// list, "N unit", or a plain unit word.
func parseRule(clause string, bound recur.Bound) (recur.Rule, error) {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return recur.Rule{}, &Error{Reason: `"every" with no recurrence unit`}
	}

	if days, ok := parseWeekdayList(clause); ok {
		rule, err := recur.WeekdaySet(days, bound)
		if err != nil {
			return recur.Rule{}, &Error{Reason: err.Error()}
		}
		return rule, nil
	}

	if m := numUnitPattern.FindStringSubmatch(clause); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return recur.Rule{}, &Error{Reason: fmt.Sprintf("interval must be positive, got %q", m[1])}
		}
		rule, err := recur.Interval(unitFrequency(m[2]), n, bound)
		if err != nil {
			return recur.Rule{}, &Error{Reason: err.Error()}
		}
		return rule, nil
	}

	if m := unitPattern.FindStringSubmatch(clause); m != nil {
		freq := clauseFrequency(m)
		// A bare unit is a fixed-count rule unless an explicit bound was
		// given, in which case it is a 1-step interval under that bound.
		if bound == (recur.Bound{}) {
			rule, err := recur.FixedCount(freq)
			if err != nil {
				return recur.Rule{}, &Error{Reason: err.Error()}
			}
			return rule, nil
		}
		rule, err := recur.Interval(freq, 1, bound)
		if err != nil {
			return recur.Rule{}, &Error{Reason: err.Error()}
		}
		return rule, nil
	}

	return recur.Rule{}, &Error{Reason: fmt.Sprintf("unrecognized recurrence clause %q", clause)}
}

func unitFrequency(unit string) recur.Frequency {
	switch strings.ToLower(unit) {
	case "day":
		return recur.Daily
	case "week":
		return recur.Weekly
	case "month":
		return recur.Monthly
	default:
		return recur.Annually
	}
}

func clauseFrequency(m []string) recur.Frequency {
	switch {
	case m[1] != "":
		return unitFrequency(m[1])
	case m[2] != "":
		return recur.Daily
	case m[3] != "":
		return recur.Weekly
	case m[4] != "":
		return recur.Monthly
	default:
		return recur.Annually
	}
}

// parseWeekdayList parses a comma-separated weekday list ("mon,wed,fri").
// Every token must name a weekday for the clause to count as a list.
func parseWeekdayList(clause string) ([]dates.Weekday, bool) {
	parts := strings.Split(clause, ",")
	days := make([]dates.Weekday, 0, len(parts))
	for _, part := range parts {
		day, ok := parseWeekdayName(strings.TrimSpace(part))
		if !ok {
			return nil, false
		}
		days = append(days, day)
	}
	return days, len(days) > 0
}

var weekdayPrefixes = map[string]dates.Weekday{
	"mon": dates.Monday,
	"tue": dates.Tuesday,
	"wed": dates.Wednesday,
	"thu": dates.Thursday,
	"fri": dates.Friday,
	"sat": dates.Saturday,
	"sun": dates.Sunday,
}

// parseWeekdayName matches a weekday by 3-letter prefix ("tue", "tues",
// "tuesday").
func parseWeekdayName(token string) (dates.Weekday, bool) {
	token = strings.ToLower(token)
	if len(token) < 3 {
		return 0, false
	}
	day, ok := weekdayPrefixes[token[:3]]
	if !ok {
		return 0, false
	}
	// The token must be a genuine prefix of the full name ("tuex" is not).
	full := strings.ToLower(day.String())
	if !strings.HasPrefix(full, token) {
		return 0, false
	}
	return day, true
}

// ---------------------------------------------------------------------------
// Stage 4: anchor date
// ---------------------------------------------------------------------------

type anchorStage struct{}

func (anchorStage) extract(p *parseState) error {
	anchor, remainder, ok, err := matchDate(p.text, p.reference)
	if err != nil {
		return err
	}
	if !ok {
		return nil // anchor defaults to the reference date
	}
	p.anchor = anchor
	p.text = remainder
	return nil
}

var (
	isoPattern      = regexp.MustCompile(`(^|\s)(\d{4})-(\d{2})-(\d{2})\b`)
	dayMonthPattern = regexp.MustCompile(`(^|\s)(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}|\d{2}))?\b`)
	monthNames      = "jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec"
	dayNamePattern  = regexp.MustCompile(`(?i)(^|\s)(\d{1,2})\s+(` + monthNames + `)[a-z]*\b`)
	nameDayPattern  = regexp.MustCompile(`(?i)(^|\s)(` + monthNames + `)[a-z]*\s+(\d{1,2})\b`)
	todayPattern    = regexp.MustCompile(`(?i)(^|\s)(today)\b`)
	tomorrowPattern = regexp.MustCompile(`(?i)(^|\s)(tomorrow)\b`)
	nextWeekPattern = regexp.MustCompile(`(?i)(^|\s)(next\s+week)\b`)
	nextDayPattern  = regexp.MustCompile(`(?i)(^|\s)next\s+([a-z]+)\b`)
	inUnitsPattern  = regexp.MustCompile(`(?i)(^|\s)in\s+(\d+)\s+(day|week|month)s?\b`)
)

// matchDate finds the first date expression in text by fixed precedence
// (ISO, D/M with optional year, day + month name, relative keyword,
// "in N units") and returns the resolved date plus the text with the match
// removed. A match that names an impossible calendar date is an error, not
// a silent fallback.
func matchDate(text string, reference dates.Date) (dates.Date, string, bool, error) {
	if m := isoPattern.FindStringSubmatchIndex(text); m != nil {
		d, err := dates.Parse(text[m[4]:m[5]] + "-" + text[m[6]:m[7]] + "-" + text[m[8]:m[9]])
		if err != nil {
			return dates.Date{}, "", false, &Error{Reason: err.Error()}
		}
		return d, cut(text, m[0], m[1]), true, nil
	}

	if m := dayMonthPattern.FindStringSubmatchIndex(text); m != nil {
		day, _ := strconv.Atoi(text[m[4]:m[5]])
		month, _ := strconv.Atoi(text[m[6]:m[7]])
		year := reference.Year
		if m[8] >= 0 {
			year, _ = strconv.Atoi(text[m[8]:m[9]])
			if year < 100 {
				year += 2000
			}
		}
		d, err := dates.New(year, month, day)
		if err != nil {
			return dates.Date{}, "", false, &Error{Reason: err.Error()}
		}
		return d, cut(text, m[0], m[1]), true, nil
	}

	if m := dayNamePattern.FindStringSubmatchIndex(text); m != nil {
		day, _ := strconv.Atoi(text[m[4]:m[5]])
		d, err := dates.New(reference.Year, monthNumber(text[m[6]:m[7]]), day)
		if err != nil {
			return dates.Date{}, "", false, &Error{Reason: err.Error()}
		}
		return d, cut(text, m[0], m[1]), true, nil
	}

	if m := nameDayPattern.FindStringSubmatchIndex(text); m != nil {
		day, _ := strconv.Atoi(text[m[6]:m[7]])
		d, err := dates.New(reference.Year, monthNumber(text[m[4]:m[5]]), day)
		if err != nil {
			return dates.Date{}, "", false, &Error{Reason: err.Error()}
		}
		return d, cut(text, m[0], m[1]), true, nil
	}

	if m := todayPattern.FindStringSubmatchIndex(text); m != nil {
		return reference, cut(text, m[0], m[1]), true, nil
	}
	if m := tomorrowPattern.FindStringSubmatchIndex(text); m != nil {
		return reference.AddDays(1), cut(text, m[0], m[1]), true, nil
	}
	if m := nextWeekPattern.FindStringSubmatchIndex(text); m != nil {
		return reference.AddDays(7), cut(text, m[0], m[1]), true, nil
	}
	if m := nextDayPattern.FindStringSubmatchIndex(text); m != nil {
		if day, ok := parseWeekdayName(text[m[4]:m[5]]); ok {
			return nextWeekday(reference, day), cut(text, m[0], m[1]), true, nil
		}
	}

	if m := inUnitsPattern.FindStringSubmatchIndex(text); m != nil {
		n, _ := strconv.Atoi(text[m[4]:m[5]])
		var d dates.Date
		switch strings.ToLower(text[m[6]:m[7]]) {
		case "day":
			d = reference.AddDays(n)
		case "week":
			d = reference.AddWeeks(n)
		case "month":
			// Calendar months, not 30-day blocks.
			d = reference.AddMonths(n)
		}
		return d, cut(text, m[0], m[1]), true, nil
	}

	return dates.Date{}, "", false, nil
}

// nextWeekday returns the nearest occurrence of day strictly after the
// reference date, scanning forward at most 14 days.
func nextWeekday(reference dates.Date, day dates.Weekday) dates.Date {
	for i := 1; i <= 14; i++ {
		candidate := reference.AddDays(i)
		if candidate.Weekday() == day {
			return candidate
		}
	}
	return reference // unreachable: every weekday occurs within 7 days
}

func monthNumber(prefix string) int {
	switch strings.ToLower(prefix)[:3] {
	case "jan":
		return 1
	case "feb":
		return 2
	case "mar":
		return 3
	case "apr":
		return 4
	case "may":
		return 5
	case "jun":
		return 6
	case "jul":
		return 7
	case "aug":
		return 8
	case "sep":
		return 9
	case "oct":
		return 10
	case "nov":
		return 11
	default:
		return 12
	}
}

// cut removes text[start:end], preserving a separating space.
func cut(text string, start, end int) string {
	return strings.TrimSpace(text[:start] + " " + text[end:])
}
