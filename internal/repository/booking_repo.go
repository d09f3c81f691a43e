package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"timebestilling/internal/db"
	"timebestilling/internal/schedule"

	"github.com/lib/pq"
)

// ErrSlotTaken reports that another booking already holds the requested start
// time. It is produced by the unique index on bookings.start_at, never by a
// read-then-write check, so it holds under concurrent submissions.
var ErrSlotTaken = errors.New("requested time is already booked")

const pqUniqueViolation = "23505"

type BookingRepository struct {
	DB  *sql.DB
	Loc *time.Location
}

func NewBookingRepository(database *sql.DB, loc *time.Location) *BookingRepository {
	return &BookingRepository{DB: database, Loc: loc}
}

// TakenTimesOnDate returns the slot labels of every booking whose start
// instant falls on the given civil date in the salon's zone, ascending.
func (r *BookingRepository) TakenTimesOnDate(d schedule.Date) ([]string, error) {
	dayStart := d.StartOfDay(r.Loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.DB.Query(
		`SELECT start_at FROM bookings WHERE start_at >= $1 AND start_at < $2 ORDER BY start_at`,
		dayStart, dayEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings on %s: %w", d, err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var startAt time.Time
		if err := rows.Scan(&startAt); err != nil {
			return nil, fmt.Errorf("error scanning booking start time: %w", err)
		}
		times = append(times, schedule.FormatSlot(startAt, r.Loc))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating booking rows: %w", err)
	}
	return times, nil
}

// CreateBooking inserts the booking and fills in the assigned id and creation
// timestamp. The insert is the conflict check: a unique-index violation on
// start_at comes back as ErrSlotTaken and leaves no row behind.
func (r *BookingRepository) CreateBooking(booking *db.Booking) error {
	query := `
		INSERT INTO bookings
		(code, name, email, phone, service_id, service_name, price, start_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := r.DB.QueryRow(query,
		booking.Code,
		booking.Name,
		booking.Email,
		booking.Phone,
		booking.ServiceID,
		booking.ServiceName,
		booking.Price,
		booking.StartAt,
		booking.CreatedAt,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

// GetBookingByCode looks up a booking by its reference code and the email it
// was made with.
func (r *BookingRepository) GetBookingByCode(code, email string) (*db.Booking, error) {
	var booking db.Booking
	query := `
		SELECT id, code, name, email, phone, service_id, service_name, price, start_at, created_at
		FROM bookings WHERE code = $1 AND email = $2`
	err := r.DB.QueryRow(query, code, email).Scan(
		&booking.ID, &booking.Code, &booking.Name, &booking.Email, &booking.Phone,
		&booking.ServiceID, &booking.ServiceName, &booking.Price, &booking.StartAt, &booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking with code '%s' and email '%s' not found: %w", code, email, err)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return &booking, nil
}

// ListBookings returns bookings for the admin view, optionally restricted to
// the civil date and service id given, newest start time first.
func (r *BookingRepository) ListBookings(date *schedule.Date, serviceID string) ([]db.Booking, error) {
	query := `
		SELECT id, code, name, email, phone, service_id, service_name, price, start_at, created_at
		FROM bookings WHERE 1=1`
	args := []interface{}{}

	if date != nil {
		dayStart := date.StartOfDay(r.Loc)
		args = append(args, dayStart, dayStart.AddDate(0, 0, 1))
		query += fmt.Sprintf(" AND start_at >= $%d AND start_at < $%d", len(args)-1, len(args))
	}
	if serviceID != "" {
		args = append(args, serviceID)
		query += fmt.Sprintf(" AND service_id = $%d", len(args))
	}
	query += " ORDER BY start_at DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var booking db.Booking
		err := rows.Scan(
			&booking.ID, &booking.Code, &booking.Name, &booking.Email, &booking.Phone,
			&booking.ServiceID, &booking.ServiceName, &booking.Price, &booking.StartAt, &booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating booking rows: %w", err)
	}
	return bookings, nil
}

// BookingsBetween returns the bookings starting in [from, to), ascending.
// Used by the daily summary job.
func (r *BookingRepository) BookingsBetween(from, to time.Time) ([]db.Booking, error) {
	rows, err := r.DB.Query(`
		SELECT id, code, name, email, phone, service_id, service_name, price, start_at, created_at
		FROM bookings WHERE start_at >= $1 AND start_at < $2 ORDER BY start_at`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings between %s and %s: %w", from, to, err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var booking db.Booking
		err := rows.Scan(
			&booking.ID, &booking.Code, &booking.Name, &booking.Email, &booking.Phone,
			&booking.ServiceID, &booking.ServiceName, &booking.Price, &booking.StartAt, &booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating booking rows: %w", err)
	}
	return bookings, nil
}

// GetServices lists the bookable treatments.
func (r *BookingRepository) GetServices() ([]db.SalonService, error) {
	rows, err := r.DB.Query(`SELECT id, name, price, duration_minutes FROM services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []db.SalonService
	for rows.Next() {
		var svc db.SalonService
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Price, &svc.DurationMinutes); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, nil
}
