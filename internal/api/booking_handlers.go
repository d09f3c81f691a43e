package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"timebestilling/internal/entities"
	httperrors "timebestilling/internal/errors"
	"timebestilling/internal/repository"
	"timebestilling/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	Service *service.BookingService
	Repo    *repository.BookingRepository
}

func NewBookingHandler(svc *service.BookingService, repo *repository.BookingRepository) *BookingHandler {
	return &BookingHandler{Service: svc, Repo: repo}
}

// GetAvailability handles GET /api/availability?date=YYYY-MM-DD.
func (h *BookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeError(w, httperrors.NewHTTPError(http.StatusBadRequest, "date kreves i format YYYY-MM-DD"), ReasonInvalidInput)
		return
	}

	resp, err := h.Service.Availability(dateStr)
	if err != nil {
		httpErr, reason := rejectionOf(err)
		writeError(w, httpErr, reason)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, httperrors.NewHTTPError(http.StatusBadRequest, "ugyldig forespørsel"), ReasonInvalidInput)
		return
	}

	confirmation, err := h.Service.Submit(&req)
	if err != nil {
		httpErr, reason := rejectionOf(err)
		writeError(w, httpErr, reason)
		return
	}
	writeJSON(w, http.StatusCreated, confirmation)
}

// GetBooking handles GET /api/bookings/{code}?email=.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, httperrors.NewHTTPError(http.StatusBadRequest, "email kreves"), ReasonInvalidInput)
		return
	}

	booking, err := h.Repo.GetBookingByCode(code, email)
	if err != nil {
		writeError(w, httperrors.NewHTTPError(http.StatusNotFound, "booking ikke funnet"), ReasonInvalidInput)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(*booking))
}

// GetServices handles GET /api/services.
func (h *BookingHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.Service.GetServices()
	if err != nil {
		writeError(w, httperrors.NewHTTPError(http.StatusInternalServerError, "kunne ikke hente behandlinger"), ReasonInternal)
		return
	}
	out := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, ServiceResponse{
			ID:              svc.ID,
			Name:            svc.Name,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// rejectionOf maps the booking service's error taxonomy onto HTTP statuses:
// validation 400, lead-time 422, conflict 409, everything else 500.
func rejectionOf(err error) (*httperrors.HTTPError, string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return httperrors.NewHTTPError(http.StatusBadRequest, validationErr.Error()), ReasonInvalidInput
	case errors.Is(err, service.ErrTooSoonOrPast):
		return httperrors.NewHTTPError(http.StatusUnprocessableEntity, "tidspunktet er passert eller for nært"), ReasonTooSoonOrPast
	case errors.Is(err, repository.ErrSlotTaken):
		return httperrors.ErrConflict("Tiden er allerede booket."), ReasonSlotTaken
	default:
		return httperrors.NewHTTPError(http.StatusInternalServerError, "intern feil"), ReasonInternal
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, httpErr *httperrors.HTTPError, reason string) {
	writeJSON(w, httpErr.Code, ErrorResponse{Error: httpErr.Message, Reason: reason})
}
