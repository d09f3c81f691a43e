package entities

// BookingRequest is the submission payload from the booking form. Date is
// "YYYY-MM-DD" and Time an "HH:MM" slot label; the pair is resolved to an
// instant by the booking service.
type BookingRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Price       int    `json:"price"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}
