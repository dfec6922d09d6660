package journal

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical text form of a calendar day.
// The canonical string, not any timestamp, is the identity of a day's entry.
const DayKeyLayout = "2006-01-02"

// CalendarDate identifies a calendar day without reference to any timezone.
// It is a pure value type; two dates are equal iff their canonical strings are.
type CalendarDate struct {
	year  int
	month time.Month
	day   int
}

// CalendarDateOf projects a timestamp to the calendar day in the timestamp's
// own location. Pass a local-time value to get "today" as the user sees it.
func CalendarDateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{year: y, month: m, day: d}
}

// ParseCalendarDate parses a canonical yyyy-MM-dd string.
// Overflow dates such as "2024-02-30" are rejected; failures wrap ErrMalformedDate.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(DayKeyLayout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	d := CalendarDateOf(t)
	// time.Parse normalizes overflow (Feb 30 becomes Mar 1), so a
	// round-trip mismatch means the input was not a real calendar day.
	if d.String() != s {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return d, nil
}

// String returns the canonical yyyy-MM-dd form.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Equal reports whether two dates identify the same calendar day.
func (d CalendarDate) Equal(o CalendarDate) bool {
	return d.year == o.year && d.month == o.month && d.day == o.day
}

// StartOfDay returns midnight of this day in the current local timezone.
// It is recomputed on every call and never stored: the canonical string is
// the source of truth, so a later timezone change moves the display instant
// but never the identity.
func (d CalendarDate) StartOfDay() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.Local)
}

// ReferenceTime returns the fixed instant stored alongside an entry for
// backward-compatible sorting: noon UTC of the day. Deriving it from the
// day key (never from the wall clock) keeps it consistent with the identity.
func (d CalendarDate) ReferenceTime() time.Time {
	return time.Date(d.year, d.month, d.day, 12, 0, 0, 0, time.UTC)
}

// Before reports whether d is an earlier calendar day than o.
func (d CalendarDate) Before(o CalendarDate) bool {
	return d.String() < o.String()
}
