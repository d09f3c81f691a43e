package schedule

import "time"

// Available filters the canonical slots of d down to the ones that can still
// be booked: labels present in taken are removed, a day before now's civil
// date yields nothing, and on the current day every slot starting at or
// before now plus the lead time is dropped. Slots on future days are never
// lead-time filtered. The result is an order-preserving subsequence of
// canonical.
//
// The caller supplies now and the taken set; this function performs no I/O,
// so availability reads stay consistent with whatever snapshot the caller
// queried.
func Available(d Date, canonical []string, taken map[string]struct{}, now time.Time, loc *time.Location, leadMinutes int) []string {
	today := DateOf(now, loc)
	if d.Before(today) {
		return nil
	}
	isToday := d == today
	cutoff := now.Add(time.Duration(leadMinutes) * time.Minute)

	available := make([]string, 0, len(canonical))
	for _, slot := range canonical {
		if _, ok := taken[slot]; ok {
			continue
		}
		if isToday {
			startAt, err := ResolveStartAt(d, slot, loc)
			if err != nil {
				continue
			}
			if !startAt.After(cutoff) {
				continue
			}
		}
		available = append(available, slot)
	}
	return available
}
