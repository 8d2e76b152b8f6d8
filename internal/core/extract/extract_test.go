package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/example/stride/internal/core/dates"
)

// ref is a Monday.
var ref = dates.MustNew(2025, 9, 1)

func mustExtract(t *testing.T, raw string) Entry {
	t.Helper()
	entry, err := Extract(raw, ref)
	if err != nil {
		t.Fatalf("Extract(%q) failed: %v", raw, err)
	}
	return entry
}

func isoOccurrences(e Entry) []string {
	out := make([]string, len(e.Occurrences))
	for i, d := range e.Occurrences {
		out[i] = d.String()
	}
	return out
}

func TestExtract_PlainTitle(t *testing.T) {
	entry := mustExtract(t, "Buy milk")
	if entry.Title != "Buy milk" {
		t.Errorf("Title = %q, want 'Buy milk'", entry.Title)
	}
	if entry.Category != "" || entry.Priority != 0 {
		t.Errorf("unexpected tags: category=%q priority=%d", entry.Category, entry.Priority)
	}
	if got := isoOccurrences(entry); !reflect.DeepEqual(got, []string{"2025-09-01"}) {
		t.Errorf("occurrences = %v, want single reference date", got)
	}
	if entry.SourceTag != SourceQuickEntry {
		t.Errorf("SourceTag = %q, want %q", entry.SourceTag, SourceQuickEntry)
	}
}

func TestExtract_CategoryAndPriority(t *testing.T) {
	tests := []struct {
		raw      string
		title    string
		category Category
		priority Priority
	}{
		{"Call plumber #home", "Call plumber", CategoryHome, 0},
		{"Call plumber #HOME", "Call plumber", CategoryHome, 0},
		{"Taxes !high #money", "Taxes", CategoryMoney, PriorityHigh},
		{"Taxes !top", "Taxes", "", PriorityHigh},
		{"Laundry !normal", "Laundry", "", PriorityNormal},
		{"Read novel !low #study", "Read novel", CategoryStudy, PriorityLow},
		// Unknown tags stay in the title rather than being guessed at.
		{"Ping #someone", "Ping #someone", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			entry := mustExtract(t, tt.raw)
			if entry.Title != tt.title {
				t.Errorf("Title = %q, want %q", entry.Title, tt.title)
			}
			if entry.Category != tt.category {
				t.Errorf("Category = %q, want %q", entry.Category, tt.category)
			}
			if entry.Priority != tt.priority {
				t.Errorf("Priority = %d, want %d", entry.Priority, tt.priority)
			}
		})
	}
}

func TestExtract_AnchorGrammar(t *testing.T) {
	tests := []struct {
		raw   string
		title string
		want  string
	}{
		{"Dentist 2025-10-15", "Dentist", "2025-10-15"},
		{"Dentist 15/10", "Dentist", "2025-10-15"},
		{"Dentist 15-10", "Dentist", "2025-10-15"},
		{"Dentist 15/10/26", "Dentist", "2026-10-15"},
		{"Dentist 15/10/2027", "Dentist", "2027-10-15"},
		{"Dentist 15 Oct", "Dentist", "2025-10-15"},
		{"Dentist 15 October", "Dentist", "2025-10-15"},
		{"Dentist Oct 15", "Dentist", "2025-10-15"},
		{"Dentist today", "Dentist", "2025-09-01"},
		{"Dentist tomorrow", "Dentist", "2025-09-02"},
		{"Dentist next week", "Dentist", "2025-09-08"},
		{"Dentist next Tue", "Dentist", "2025-09-02"},
		// "next Monday" from a Monday is strictly after the reference.
		{"Dentist next monday", "Dentist", "2025-09-08"},
		{"Dentist in 3 days", "Dentist", "2025-09-04"},
		{"Dentist in 2 weeks", "Dentist", "2025-09-15"},
		// Calendar months, not 30-day blocks.
		{"Dentist in 1 month", "Dentist", "2025-10-01"},
		{"Dentist someday", "Dentist someday", "2025-09-01"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			entry := mustExtract(t, tt.raw)
			if entry.Title != tt.title {
				t.Errorf("Title = %q, want %q", entry.Title, tt.title)
			}
			got := isoOccurrences(entry)
			if !reflect.DeepEqual(got, []string{tt.want}) {
				t.Errorf("occurrences = %v, want [%s]", got, tt.want)
			}
		})
	}
}

// ISO wins over D/M when both could match the same token precedence-wise.
func TestExtract_AnchorPrecedence(t *testing.T) {
	entry := mustExtract(t, "Review 2025-12-01 notes from 3/11")
	if got := isoOccurrences(entry); !reflect.DeepEqual(got, []string{"2025-12-01"}) {
		t.Errorf("occurrences = %v, want ISO date to win", got)
	}
	if entry.Title != "Review notes from 3/11" {
		t.Errorf("Title = %q", entry.Title)
	}
}

// The month-end anchor clamps as each month allows when the anchor lands on
// the 31st.
func TestExtract_MonthlyFromMonthEnd(t *testing.T) {
	entry, err := Extract("Pay rent 2025-01-31 every month for 4 times", dates.MustNew(2025, 1, 1))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	want := []string{"2025-01-31", "2025-02-28", "2025-03-31", "2025-04-30"}
	if got := isoOccurrences(entry); !reflect.DeepEqual(got, want) {
		t.Errorf("occurrences = %v, want %v", got, want)
	}
}

// The worked example from the scheduling contract: category, priority and
// recurrence all present, with the until-date inside the clause never
// mistaken for the anchor.
func TestExtract_FullEntry(t *testing.T) {
	entry := mustExtract(t, "Dentist next Tue #health every month until 2026-01-01 !high")

	if entry.Title != "Dentist" {
		t.Errorf("Title = %q, want 'Dentist'", entry.Title)
	}
	if entry.Category != CategoryHealth {
		t.Errorf("Category = %q, want health", entry.Category)
	}
	if entry.Priority != PriorityHigh {
		t.Errorf("Priority = %d, want 1", entry.Priority)
	}
	want := []string{"2025-09-02", "2025-10-02", "2025-11-02", "2025-12-02"}
	if got := isoOccurrences(entry); !reflect.DeepEqual(got, want) {
		t.Errorf("occurrences = %v, want %v", got, want)
	}
}

func TestExtract_RecurrenceForms(t *testing.T) {
	tests := []struct {
		raw   string
		first string
		count int
	}{
		{"Standup every day for 3 times", "2025-09-01", 3},
		{"Gym every 2 days for 4 times", "2025-09-01", 4},
		{"Retro every 2 weeks for 3 times", "2025-09-01", 3},
		{"Rent every month", "2025-09-01", 12},     // fixed-count default
		{"Water plants every week", "2025-09-01", 12},
		{"Journal every day", "2025-09-01", 14},
		{"Insurance every year", "2025-09-01", 5},
		{"Gym every mon,wed,fri for 6 times", "2025-09-01", 6},
		{"Swim every tue, thu for 4 times", "2025-09-02", 4},
		{"Church every sun for 2 times", "2025-09-07", 2},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			entry := mustExtract(t, tt.raw)
			got := isoOccurrences(entry)
			if len(got) != tt.count {
				t.Fatalf("count = %d, want %d (%v)", len(got), tt.count, got)
			}
			if got[0] != tt.first {
				t.Errorf("first = %s, want %s", got[0], tt.first)
			}
		})
	}
}

func TestExtract_UntilAndCountCombined(t *testing.T) {
	// Count of 10 but until stops after 3 weekly dates.
	entry := mustExtract(t, "Review every week until 2025-09-15 for 10 times")
	want := []string{"2025-09-01", "2025-09-08", "2025-09-15"}
	if got := isoOccurrences(entry); !reflect.DeepEqual(got, want) {
		t.Errorf("occurrences = %v, want %v", got, want)
	}
	if entry.Title != "Review" {
		t.Errorf("Title = %q, want 'Review'", entry.Title)
	}
}

func TestExtract_UntilRelativeDate(t *testing.T) {
	entry := mustExtract(t, "Stretch every day until next week")
	want := []string{
		"2025-09-01", "2025-09-02", "2025-09-03", "2025-09-04",
		"2025-09-05", "2025-09-06", "2025-09-07", "2025-09-08",
	}
	if got := isoOccurrences(entry); !reflect.DeepEqual(got, want) {
		t.Errorf("occurrences = %v, want %v", got, want)
	}
}

func TestExtract_Errors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{"empty input", "", "no title"},
		{"only tags", "#health !low", "no title"},
		{"only whitespace", "   ", "no title"},
		{"title consumed by clause", "every week", "no title"},
		{"until without date", "Tidy every week until whenever", "no recognizable date"},
		{"zero count", "Tidy every week for 0 times", "positive"},
		{"unknown clause", "Tidy every blue moon", "unrecognized recurrence clause"},
		{"bare every", "Tidy every", "no recurrence unit"},
		{"impossible ISO date", "Tidy 2025-02-30", "invalid"},
		{"impossible day/month", "Tidy 31/2", "invalid"},
		{"until before anchor", "Tidy 2025-12-01 every week until 2025-11-01", "no occurrences"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.raw, ref)
			if err == nil {
				t.Fatalf("Extract(%q) succeeded, want error", tt.raw)
			}
			if _, ok := err.(*Error); !ok {
				t.Errorf("error type = %T, want *extract.Error", err)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.reason)
			}
		})
	}
}

func TestExtract_WhitespaceCollapse(t *testing.T) {
	entry := mustExtract(t, "  Fix   the    gate   #home ")
	if entry.Title != "Fix the gate" {
		t.Errorf("Title = %q, want 'Fix the gate'", entry.Title)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	raw := "Gym every mon,wed,fri until 2025-10-01 #health"
	a := mustExtract(t, raw)
	b := mustExtract(t, raw)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two extractions differ: %+v vs %+v", a, b)
	}
}
