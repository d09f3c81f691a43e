package service

import (
	"fmt"
	"log"
	"os"
	"time"

	"timebestilling/internal/db"
	"timebestilling/internal/schedule"
)

// BookingLister is the read-only view the summary job needs.
type BookingLister interface {
	BookingsBetween(from, to time.Time) ([]db.Booking, error)
}

type JobService struct {
	Repo BookingLister
	Loc  *time.Location
}

func NewJobService(repo BookingLister, loc *time.Location) *JobService {
	return &JobService{Repo: repo, Loc: loc}
}

// SendDailySummary mails the operator the list of today's appointments. It
// only reads; committed bookings are never touched.
func (s *JobService) SendDailySummary() error {
	log.Println("Cron Job: Building today's booking summary...")

	today := schedule.DateOf(time.Now(), s.Loc)
	dayStart := today.StartOfDay(s.Loc)
	bookings, err := s.Repo.BookingsBetween(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("cron job: failed to list today's bookings: %w", err)
	}

	ownerEmail := os.Getenv("BOOKING_OWNER_EMAIL")
	if ownerEmail == "" {
		return fmt.Errorf("cron job: BOOKING_OWNER_EMAIL not set")
	}

	if len(bookings) == 0 {
		log.Println("Cron Job: No bookings today, skipping summary email.")
		return nil
	}

	body := fmt.Sprintf("Dagens timeplan %s:\n\n", today)
	for _, booking := range bookings {
		body += fmt.Sprintf("%s  %s - %s (%s, tlf %s)\n",
			schedule.FormatSlot(booking.StartAt, s.Loc),
			booking.ServiceName, booking.Name, booking.Email, booking.Phone)
	}
	body += fmt.Sprintf("\nTotalt %d avtaler.\n", len(bookings))

	subject := fmt.Sprintf("Dagens timeplan - %s - %d avtaler", today, len(bookings))
	if err := SendEmailWithSendGrid(ownerEmail, "Beauty Center Skien", subject, body); err != nil {
		return fmt.Errorf("cron job: failed to send summary email: %w", err)
	}

	log.Printf("Cron Job: Sent summary of %d bookings to %s", len(bookings), ownerEmail)
	return nil
}
