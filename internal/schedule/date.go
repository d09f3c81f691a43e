package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slotRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Date is a civil calendar date in the salon's local calendar. It carries no
// time-of-day and no zone; two dates are equal when year, month and day match.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	if !dateRe.MatchString(s) {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf returns the civil date of an instant as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	local := t.In(loc)
	return Date{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Weekday is computed from the date components directly, never from a
// UTC-normalized instant.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// StartOfDay returns midnight of d in loc.
func (d Date) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// ResolveStartAt combines a civil date and an "HH:MM" slot label into the
// absolute instant of that local wall-clock time in loc. This is the only
// date+time to instant conversion in the system: slot filtering, the
// availability endpoint and booking submission all go through it, so a time
// shown as available resolves to the exact instant the uniqueness check uses.
func ResolveStartAt(d Date, slot string, loc *time.Location) (time.Time, error) {
	hour, min, err := ParseSlot(slot)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year, d.Month, d.Day, hour, min, 0, 0, loc), nil
}

// ParseSlot parses a strict zero-padded 24h "HH:MM" label.
func ParseSlot(s string) (hour, minute int, err error) {
	if !slotRe.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, _ = strconv.Atoi(s[:2])
	minute, _ = strconv.Atoi(s[3:5])
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hour, minute, nil
}

// FormatSlot renders the wall-clock time of an instant in loc as a slot label.
func FormatSlot(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}
