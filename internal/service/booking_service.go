package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"timebestilling/internal/db"
	"timebestilling/internal/entities"
	"timebestilling/internal/repository"
	"timebestilling/internal/schedule"
)

// ErrTooSoonOrPast rejects a submission whose start time is already behind
// now plus the minimum lead time.
var ErrTooSoonOrPast = errors.New("requested time is in the past or too soon")

// BookingStore is the persistence capability the booking flow needs: the
// taken times of a day, and an insert that is atomically rejected when the
// start instant is already booked.
type BookingStore interface {
	TakenTimesOnDate(d schedule.Date) ([]string, error)
	CreateBooking(booking *db.Booking) error
	GetServices() ([]db.SalonService, error)
}

// Notifier receives committed bookings for confirmation dispatch. Calls are
// advisory; the booking stands whatever the notifier does with it.
type Notifier interface {
	BookingConfirmed(booking db.Booking)
}

type BookingService struct {
	Repo     BookingStore
	Notifier Notifier
	Cfg      schedule.Config

	now func() time.Time
}

func NewBookingService(repo BookingStore, notifier Notifier, cfg schedule.Config) *BookingService {
	return &BookingService{Repo: repo, Notifier: notifier, Cfg: cfg, now: time.Now}
}

// Availability returns the bookable slot labels for a "YYYY-MM-DD" date:
// the day's canonical slots minus taken and past or too-soon times.
func (s *BookingService) Availability(dateStr string) (*entities.AvailabilityResponse, error) {
	date, err := schedule.ParseDate(dateStr)
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "bruk format YYYY-MM-DD"}
	}

	canonical := schedule.CanonicalSlots(date, s.Cfg.Week)

	takenTimes, err := s.Repo.TakenTimesOnDate(date)
	if err != nil {
		log.Printf("Error fetching taken times for %s: %v", date, err)
		return nil, fmt.Errorf("internal error checking availability: %w", err)
	}
	taken := make(map[string]struct{}, len(takenTimes))
	for _, t := range takenTimes {
		taken[t] = struct{}{}
	}

	available := schedule.Available(date, canonical, taken, s.now(), s.Cfg.Location, s.Cfg.MinLeadMinutes)
	if available == nil {
		available = []string{}
	}
	return &entities.AvailabilityResponse{Date: dateStr, Available: available}, nil
}

// Submit runs a booking request through validation, the lead-time check and
// the conflict-guarded insert, then hands the committed booking to the
// notifier as a detached task. Rejections come back as *ValidationError,
// ErrTooSoonOrPast or repository.ErrSlotTaken; anything else is internal.
func (s *BookingService) Submit(req *entities.BookingRequest) (*entities.BookingConfirmation, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Field: "date", Message: "bruk format YYYY-MM-DD"}
	}
	if _, _, err := schedule.ParseSlot(req.Time); err != nil {
		return nil, &ValidationError{Field: "time", Message: "bruk format HH:MM"}
	}
	if !isCanonical(req.Time, schedule.CanonicalSlots(date, s.Cfg.Week)) {
		return nil, &ValidationError{Field: "time", Message: "tidspunktet er utenfor åpningstidene"}
	}

	// The same resolver the availability path uses, so a slot shown as free
	// maps to the exact instant the uniqueness check runs against.
	startAt, err := schedule.ResolveStartAt(date, req.Time, s.Cfg.Location)
	if err != nil {
		return nil, &ValidationError{Field: "time", Message: "bruk format HH:MM"}
	}

	lead := time.Duration(s.Cfg.MinLeadMinutes) * time.Minute
	if !startAt.After(s.now().Add(lead)) {
		return nil, ErrTooSoonOrPast
	}

	booking := &db.Booking{
		Code:        fmt.Sprintf("%08X", time.Now().UnixNano()%100000000),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
		Price:       req.Price,
		StartAt:     startAt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Repo.CreateBooking(booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, repository.ErrSlotTaken
		}
		log.Printf("Error creating booking in repository: %v", err)
		return nil, err
	}

	// Persistence is authoritative, confirmation mail is advisory: dispatch
	// detached and let the notifier record the outcome.
	go s.Notifier.BookingConfirmed(*booking)

	return &entities.BookingConfirmation{
		BookingID:   booking.ID,
		Code:        booking.Code,
		Name:        booking.Name,
		Email:       booking.Email,
		ServiceName: booking.ServiceName,
		Price:       booking.Price,
		Date:        req.Date,
		Time:        req.Time,
		StartAt:     booking.StartAt,
	}, nil
}

func (s *BookingService) GetServices() ([]db.SalonService, error) {
	return s.Repo.GetServices()
}

func isCanonical(slot string, canonical []string) bool {
	for _, c := range canonical {
		if c == slot {
			return true
		}
	}
	return false
}
