package journal_test

import (
	"errors"
	"testing"
	"time"

	"daybook/internal/journal"
)

func TestParseCalendarDate(t *testing.T) {
	t.Run("valid dates round-trip", func(t *testing.T) {
		for _, s := range []string{"2024-01-01", "2024-02-29", "2025-12-31", "1999-06-15"} {
			d, err := journal.ParseCalendarDate(s)
			if err != nil {
				t.Errorf("ParseCalendarDate(%q) error = %v", s, err)
				continue
			}
			if got := d.String(); got != s {
				t.Errorf("ParseCalendarDate(%q).String() = %q", s, got)
			}
		}
	})

	t.Run("invalid dates are rejected", func(t *testing.T) {
		for _, s := range []string{
			"",
			"not-a-date",
			"2024-13-01",
			"2024-00-10",
			"2024-02-30",
			"2023-02-29",
			"2024-1-1",
			"01-02-2024",
			"2024/01/02",
		} {
			_, err := journal.ParseCalendarDate(s)
			if err == nil {
				t.Errorf("ParseCalendarDate(%q) expected error", s)
				continue
			}
			if !errors.Is(err, journal.ErrMalformedDate) {
				t.Errorf("ParseCalendarDate(%q) error = %v, want ErrMalformedDate", s, err)
			}
		}
	})
}

func TestCalendarDateOf(t *testing.T) {
	t.Run("uses the timestamp's own location", func(t *testing.T) {
		// 23:30 local on March 1 is already March 2 in UTC, but the
		// calendar day must follow the wall clock the user sees.
		loc := time.FixedZone("UTC-5", -5*60*60)
		ts := time.Date(2025, 3, 1, 23, 30, 0, 0, loc)

		d := journal.CalendarDateOf(ts)
		if got := d.String(); got != "2025-03-01" {
			t.Errorf("CalendarDateOf() = %q, want %q", got, "2025-03-01")
		}
	})

	t.Run("UTC projection of a noon UTC instant", func(t *testing.T) {
		ts := time.Date(2024, 7, 4, 12, 0, 0, 0, time.UTC)
		d := journal.CalendarDateOf(ts)
		if got := d.String(); got != "2024-07-04" {
			t.Errorf("CalendarDateOf() = %q, want %q", got, "2024-07-04")
		}
	})
}

func TestCalendarDate_ReferenceTime(t *testing.T) {
	d, err := journal.ParseCalendarDate("2025-03-01")
	if err != nil {
		t.Fatalf("ParseCalendarDate() error = %v", err)
	}

	ref := d.ReferenceTime()
	want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if !ref.Equal(want) {
		t.Errorf("ReferenceTime() = %v, want %v", ref, want)
	}

	// The reference instant must project back to the same day.
	if got := journal.CalendarDateOf(ref.UTC()).String(); got != "2025-03-01" {
		t.Errorf("reference instant projects to %q, want %q", got, "2025-03-01")
	}
}

func TestCalendarDate_StartOfDay(t *testing.T) {
	d, err := journal.ParseCalendarDate("2025-03-01")
	if err != nil {
		t.Fatalf("ParseCalendarDate() error = %v", err)
	}

	start := d.StartOfDay()
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("StartOfDay() = %v, want midnight", start)
	}
	if start.Location() != time.Local {
		t.Errorf("StartOfDay() location = %v, want local", start.Location())
	}
}

func TestCalendarDate_Ordering(t *testing.T) {
	a, _ := journal.ParseCalendarDate("2025-02-28")
	b, _ := journal.ParseCalendarDate("2025-03-01")

	if !a.Before(b) {
		t.Error("2025-02-28 should be before 2025-03-01")
	}
	if b.Before(a) {
		t.Error("2025-03-01 should not be before 2025-02-28")
	}
	if !a.Equal(a) {
		t.Error("a date should equal itself")
	}
	if a.Equal(b) {
		t.Error("distinct dates should not be equal")
	}
}
