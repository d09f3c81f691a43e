package entities

// AvailabilityResponse lists the slot labels still bookable on a date, in
// chronological order. A closed or fully booked day has an empty list.
type AvailabilityResponse struct {
	Date      string   `json:"date"`
	Available []string `json:"available"`
}
