package entities

import "time"

// BookingConfirmation echoes a committed booking back to the client. Date and
// Time are the civil values the request was made with; StartAt is the instant
// they resolved to.
type BookingConfirmation struct {
	BookingID   int       `json:"booking_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ServiceName string    `json:"service_name"`
	Price       int       `json:"price"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	StartAt     time.Time `json:"start_at"`
}

type BookingsList struct {
	Total    int               `json:"total"`
	Bookings []BookingResponse `json:"bookings"`
}

// BookingResponse is the admin-facing view of a booking row.
type BookingResponse struct {
	ID          int       `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ServiceID   string    `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Price       int       `json:"price"`
	StartAt     time.Time `json:"start_at"`
	CreatedAt   time.Time `json:"created_at"`
}
