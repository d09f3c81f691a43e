package db

import "time"

// Booking is a committed appointment row. StartAt is the absolute instant of
// the appointment in the salon's time zone; the bookings table carries a
// unique index on it, so no two committed bookings ever share an instant.
// Rows are written once by the booking service and never updated.
type Booking struct {
	ID          int
	Code        string
	Name        string
	Email       string
	Phone       string
	ServiceID   string
	ServiceName string
	Price       int
	StartAt     time.Time
	CreatedAt   time.Time
}

// SalonService is a bookable treatment from the services table.
type SalonService struct {
	ID              string
	Name            string
	Price           int
	DurationMinutes int
}
