package service

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"timebestilling/internal/db"
	"timebestilling/internal/entities"
	"timebestilling/internal/repository"
	"timebestilling/internal/schedule"
)

// stubStore keeps bookings in a map keyed by start instant and refuses a
// second insert for the same key under a mutex, mirroring the unique index
// the real repository relies on.
type stubStore struct {
	mu      sync.Mutex
	loc     *time.Location
	byStart map[int64]db.Booking
	nextID  int
}

func newStubStore(loc *time.Location) *stubStore {
	return &stubStore{loc: loc, byStart: make(map[int64]db.Booking)}
}

func (s *stubStore) TakenTimesOnDate(d schedule.Date) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var times []string
	for _, booking := range s.byStart {
		if schedule.DateOf(booking.StartAt, s.loc) == d {
			times = append(times, schedule.FormatSlot(booking.StartAt, s.loc))
		}
	}
	return times, nil
}

func (s *stubStore) CreateBooking(booking *db.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := booking.StartAt.Unix()
	if _, exists := s.byStart[key]; exists {
		return repository.ErrSlotTaken
	}
	s.nextID++
	booking.ID = s.nextID
	s.byStart[key] = *booking
	return nil
}

func (s *stubStore) GetServices() ([]db.SalonService, error) {
	return []db.SalonService{{ID: "1", Name: "Klassisk ansiktsbehandling", Price: 890, DurationMinutes: 60}}, nil
}

func (s *stubStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byStart)
}

type stubNotifier struct {
	notified chan db.Booking
	block    chan struct{}
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{notified: make(chan db.Booking, 16)}
}

func (n *stubNotifier) BookingConfirmed(booking db.Booking) {
	if n.block != nil {
		<-n.block
	}
	n.notified <- booking
}

func newTestService(t *testing.T) (*BookingService, *stubStore, *stubNotifier) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Oslo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cfg := schedule.Config{Location: loc, Week: schedule.DefaultWeek(), MinLeadMinutes: 30}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	store := newStubStore(loc)
	notifier := newStubNotifier()
	svc := NewBookingService(store, notifier, cfg)
	// Friday 2026-02-06, mid-morning.
	svc.now = func() time.Time { return time.Date(2026, 2, 6, 10, 0, 0, 0, loc) }
	return svc, store, notifier
}

func validRequest() *entities.BookingRequest {
	return &entities.BookingRequest{
		Name:        "Kari Nordmann",
		Email:       "kari@example.com",
		Phone:       "96809506",
		ServiceID:   "1",
		ServiceName: "Klassisk ansiktsbehandling",
		Price:       890,
		Date:        "2026-02-07",
		Time:        "14:00",
	}
}

func TestSubmitCommitsAndConfirms(t *testing.T) {
	svc, store, notifier := newTestService(t)

	confirmation, err := svc.Submit(validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if confirmation.BookingID == 0 || confirmation.Code == "" {
		t.Fatalf("confirmation missing identifiers: %+v", confirmation)
	}
	if confirmation.Date != "2026-02-07" || confirmation.Time != "14:00" {
		t.Fatalf("confirmation does not echo request: %+v", confirmation)
	}
	if store.count() != 1 {
		t.Fatalf("expected 1 stored booking, got %d", store.count())
	}

	select {
	case booking := <-notifier.notified:
		if booking.Code != confirmation.Code {
			t.Fatalf("notifier got booking %s, want %s", booking.Code, confirmation.Code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was never called")
	}
}

func TestSubmitRoundTripStartAt(t *testing.T) {
	svc, _, _ := newTestService(t)

	confirmation, err := svc.Submit(validRequest())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Resolving the echoed civil date and time again must reproduce the exact
	// instant the uniqueness check ran against.
	date, err := schedule.ParseDate(confirmation.Date)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	resolved, err := schedule.ResolveStartAt(date, confirmation.Time, svc.Cfg.Location)
	if err != nil {
		t.Fatalf("ResolveStartAt: %v", err)
	}
	if !resolved.Equal(confirmation.StartAt) {
		t.Fatalf("round trip mismatch: resolved %v, committed %v", resolved, confirmation.StartAt)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	svc, store, _ := newTestService(t)

	mutations := map[string]func(*entities.BookingRequest){
		"empty name":     func(r *entities.BookingRequest) { r.Name = "  " },
		"bad email":      func(r *entities.BookingRequest) { r.Email = "not-an-email" },
		"short phone":    func(r *entities.BookingRequest) { r.Phone = "12345" },
		"empty service":  func(r *entities.BookingRequest) { r.ServiceID = "" },
		"zero price":     func(r *entities.BookingRequest) { r.Price = 0 },
		"bad date":       func(r *entities.BookingRequest) { r.Date = "07.02.2026" },
		"bad time":       func(r *entities.BookingRequest) { r.Time = "2pm" },
		"off-grid time":  func(r *entities.BookingRequest) { r.Time = "14:17" },
		"after closing":  func(r *entities.BookingRequest) { r.Time = "15:00" }, // Saturday closes at 15
		"sunday booking": func(r *entities.BookingRequest) { r.Date = "2026-02-08" },
	}
	for name, mutate := range mutations {
		req := validRequest()
		mutate(req)
		_, err := svc.Submit(req)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
	}
	if store.count() != 0 {
		t.Fatalf("rejected submissions left %d bookings behind", store.count())
	}
}

func TestSubmitRejectsTooSoonOrPast(t *testing.T) {
	svc, store, _ := newTestService(t)
	loc := svc.Cfg.Location

	cases := []struct {
		name string
		now  time.Time
		date string
		slot string
	}{
		{"past day", time.Date(2026, 2, 9, 8, 0, 0, 0, loc), "2026-02-07", "14:00"},
		{"earlier today", time.Date(2026, 2, 7, 13, 0, 0, 0, loc), "2026-02-07", "12:00"},
		{"inside lead time", time.Date(2026, 2, 7, 13, 45, 0, 0, loc), "2026-02-07", "14:00"},
		{"exactly at cutoff", time.Date(2026, 2, 7, 13, 30, 0, 0, loc), "2026-02-07", "14:00"},
	}
	for _, tc := range cases {
		svc.now = func() time.Time { return tc.now }
		req := validRequest()
		req.Date = tc.date
		req.Time = tc.slot
		if _, err := svc.Submit(req); !errors.Is(err, ErrTooSoonOrPast) {
			t.Fatalf("%s: expected ErrTooSoonOrPast, got %v", tc.name, err)
		}
	}
	if store.count() != 0 {
		t.Fatalf("rejected submissions left %d bookings behind", store.count())
	}
}

func TestSubmitRejectsTakenSlot(t *testing.T) {
	svc, store, notifier := newTestService(t)

	if _, err := svc.Submit(validRequest()); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	<-notifier.notified

	_, err := svc.Submit(validRequest())
	if !errors.Is(err, repository.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if store.count() != 1 {
		t.Fatalf("conflict left partial state: %d bookings", store.count())
	}

	select {
	case booking := <-notifier.notified:
		t.Fatalf("conflicting submission dispatched a notification: %+v", booking)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubmitConcurrentSameSlot(t *testing.T) {
	svc, store, _ := newTestService(t)

	const attempts = 8
	results := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := svc.Submit(validRequest())
			results <- err
		}()
	}
	start.Done()

	var committed, conflicted int
	for i := 0; i < attempts; i++ {
		switch err := <-results; {
		case err == nil:
			committed++
		case errors.Is(err, repository.ErrSlotTaken):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if committed != 1 || conflicted != attempts-1 {
		t.Fatalf("expected exactly 1 commit and %d conflicts, got %d and %d", attempts-1, committed, conflicted)
	}
	if store.count() != 1 {
		t.Fatalf("expected a single booking, got %d", store.count())
	}
}

func TestSubmitReturnsBeforeNotificationCompletes(t *testing.T) {
	svc, _, notifier := newTestService(t)
	notifier.block = make(chan struct{})

	done := make(chan struct{})
	go func() {
		if _, err := svc.Submit(validRequest()); err != nil {
			t.Errorf("Submit: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on notification dispatch")
	}
	close(notifier.block)
	<-notifier.notified
}

func TestAvailabilityComposesTakenAndLeadTime(t *testing.T) {
	svc, _, notifier := newTestService(t)

	// Book Saturday 10:00, then ask for Saturday's availability at 08:00.
	req := validRequest()
	req.Time = "10:00"
	if _, err := svc.Submit(req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	<-notifier.notified

	loc := svc.Cfg.Location
	svc.now = func() time.Time { return time.Date(2026, 2, 7, 8, 0, 0, 0, loc) }
	resp, err := svc.Availability("2026-02-07")
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	want := []string{"09:00", "11:00", "12:00", "13:00", "14:00"}
	if !reflect.DeepEqual(resp.Available, want) {
		t.Fatalf("available = %v, want %v", resp.Available, want)
	}

	// Later the same day the earlier slots are gone too.
	svc.now = func() time.Time { return time.Date(2026, 2, 7, 13, 40, 0, 0, loc) }
	resp, err = svc.Availability("2026-02-07")
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if !reflect.DeepEqual(resp.Available, []string{"14:00"}) {
		t.Fatalf("available = %v, want [14:00]", resp.Available)
	}
}

func TestAvailabilitySundayEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	resp, err := svc.Availability("2026-02-08")
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if len(resp.Available) != 0 {
		t.Fatalf("expected empty sunday availability, got %v", resp.Available)
	}
}

func TestAvailabilityRejectsMalformedDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Availability("next saturday")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
