// Package dates contains calendar date arithmetic for the scheduling core.
// This is part of the Functional Core - no I/O, only pure functions.
//
// A Date is a plain calendar day (year, month, day) with no time-of-day and
// no timezone. All arithmetic is Gregorian. Clamping never happens silently:
// constructing an invalid date is an error, and month-end clamping only
// occurs through AddMonthsClamped.
package dates

import (
	"fmt"
	"time"
)

// Date is a calendar date. The zero value is not a valid date; use New,
// MustNew or Parse to construct one.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int // 1-31, validated against the month
}

// Weekday is an ISO weekday: Monday=1 through Sunday=7.
type Weekday int

// ISO weekday values.
const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// String returns the English weekday name.
func (w Weekday) String() string {
	if w < Monday || w > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w-1]
}

// New constructs a validated Date. An out-of-range month or day is a caller
// bug and is rejected, never clamped.
func New(year, month, day int) (Date, error) {
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("invalid month %d: must be 1-12", month)
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("invalid day %d for %04d-%02d", day, year, month)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustNew constructs a Date and panics on invalid input. Intended for
// constants and tests where the input is known good.
func MustNew(year, month, day int) Date {
	d, err := New(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Parse parses the canonical ISO form "YYYY-MM-DD".
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// String returns the canonical ISO form "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the uninitialized zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// IsLeapYear implements the Gregorian leap year rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month-1]
}

// asTime converts to a time.Time at UTC midnight, used internally for
// day-level arithmetic. Never exposed: callers only see calendar dates.
func (d Date) asTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func fromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return fromTime(d.asTime().AddDate(0, 0, n))
}

// AddWeeks returns the date n weeks after d.
func (d Date) AddWeeks(n int) Date {
	return d.AddDays(7 * n)
}

// AddMonths advances n months, clamping to the resulting month's length
// with d's own day as the anchor. For iterated monthly stepping use
// AddMonthsClamped with the series' original anchor day instead, so a
// run anchored on the 31st does not drift to the 30th permanently.
func (d Date) AddMonths(n int) Date {
	return d.AddMonthsClamped(n, d.Day)
}

// AddMonthsClamped advances n months and sets the day to
// min(anchorDay, days in the resulting month). The anchor day is passed
// explicitly so each step of a monthly series reclamps from the series'
// original day-of-month rather than from the previous clamped result.
func (d Date) AddMonthsClamped(n, anchorDay int) Date {
	months := (d.Year*12 + d.Month - 1) + n
	year := months / 12
	month := months%12 + 1
	if month < 1 {
		month += 12
		year--
	}
	day := anchorDay
	if max := DaysInMonth(year, month); day > max {
		day = max
	}
	return Date{Year: year, Month: month, Day: day}
}

// AddYears advances n years. A Feb-29 anchor clamps to Feb-28 in non-leap
// target years.
func (d Date) AddYears(n int) Date {
	year := d.Year + n
	day := d.Day
	if max := DaysInMonth(year, d.Month); day > max {
		day = max
	}
	return Date{Year: year, Month: d.Month, Day: day}
}

// Weekday returns the ISO weekday of d (Monday=1 ... Sunday=7).
func (d Date) Weekday() Weekday {
	wd := d.asTime().Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

// Compare returns -1 if d is before other, 0 if equal, +1 if after.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether d and other are the same calendar day.
func (d Date) Equal(other Date) bool { return d == other }

// DaysBetween returns the number of days from a to b (negative if b is
// before a).
func DaysBetween(a, b Date) int {
	return int(b.asTime().Sub(a.asTime()).Hours() / 24)
}

// Min returns the earlier of a and b.
func Min(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b Date) Date {
	if b.After(a) {
		return b
	}
	return a
}

// Today converts a wall-clock instant into a calendar date in the given
// location. The pure core never calls this; it exists for the outer shell
// to turn "now" into an explicit reference date once, at the boundary.
func Today(now time.Time, loc *time.Location) Date {
	if loc != nil {
		now = now.In(loc)
	}
	return Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}
