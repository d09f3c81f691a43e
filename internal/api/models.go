package api

// ErrorResponse is the JSON body of every rejected request. Reason is a
// stable machine-readable code, Error a human-readable message.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Rejection reason codes.
const (
	ReasonInvalidInput  = "invalid_input"
	ReasonTooSoonOrPast = "too_soon_or_past"
	ReasonSlotTaken     = "slot_taken"
	ReasonInternal      = "internal"
)

type ServiceResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           int    `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}
