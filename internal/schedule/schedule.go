package schedule

import (
	"fmt"
	"time"
)

// DayHours is the opening window of a single weekday. Open and Close are whole
// hours, Close exclusive; StepMinutes must divide the window evenly.
type DayHours struct {
	Open        int
	Close       int
	StepMinutes int
}

// Week maps a weekday (time.Weekday, Sunday = 0) to its opening hours.
// A nil entry means the salon is closed that day.
type Week [7]*DayHours

// Config is the scheduling configuration the services are constructed with.
// It is an explicit value, not package state, so tests can vary schedules
// freely.
type Config struct {
	Location       *time.Location
	Week           Week
	MinLeadMinutes int
}

// DefaultWeek is the salon's opening hours: weekdays 09-19, Saturday 09-15,
// Sunday closed, bookings on the hour.
func DefaultWeek() Week {
	var w Week
	weekday := &DayHours{Open: 9, Close: 19, StepMinutes: 60}
	for day := time.Monday; day <= time.Friday; day++ {
		w[day] = weekday
	}
	w[time.Saturday] = &DayHours{Open: 9, Close: 15, StepMinutes: 60}
	return w
}

// Validate rejects malformed opening hours. It is meant to run once at
// startup; CanonicalSlots assumes a validated week.
func (c Config) Validate() error {
	if c.Location == nil {
		return fmt.Errorf("schedule: location is not set")
	}
	if c.MinLeadMinutes < 0 {
		return fmt.Errorf("schedule: negative lead time %d", c.MinLeadMinutes)
	}
	for day, hours := range c.Week {
		if hours == nil {
			continue
		}
		if hours.Open < 0 || hours.Close > 24 || hours.Open >= hours.Close {
			return fmt.Errorf("schedule: %s has invalid hours %d-%d", time.Weekday(day), hours.Open, hours.Close)
		}
		window := (hours.Close - hours.Open) * 60
		if hours.StepMinutes <= 0 || window%hours.StepMinutes != 0 {
			return fmt.Errorf("schedule: %s step %dm does not divide %dm window", time.Weekday(day), hours.StepMinutes, window)
		}
	}
	return nil
}

// CanonicalSlots returns every slot label d could ever offer, in ascending
// order, before any taken or past times are removed. Closed days return no
// slots. The result depends only on the date and the week, never on the
// wall clock.
func CanonicalSlots(d Date, week Week) []string {
	hours := week[d.Weekday()]
	if hours == nil {
		return nil
	}
	total := (hours.Close - hours.Open) * 60 / hours.StepMinutes
	slots := make([]string, 0, total)
	for m := hours.Open * 60; m < hours.Close*60; m += hours.StepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}
