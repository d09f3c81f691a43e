package api

import (
	"net/http"

	"timebestilling/internal/db"
	"timebestilling/internal/entities"
	httperrors "timebestilling/internal/errors"
	"timebestilling/internal/repository"
	"timebestilling/internal/schedule"
	"timebestilling/internal/service"
)

type AdminHandler struct {
	Repo          *repository.BookingRepository
	Notifications *service.NotificationLog
}

func NewAdminHandler(repo *repository.BookingRepository, notifications *service.NotificationLog) *AdminHandler {
	return &AdminHandler{Repo: repo, Notifications: notifications}
}

// ListBookings handles GET /admin/bookings?date=YYYY-MM-DD&service_id=.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	var date *schedule.Date
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := schedule.ParseDate(dateStr)
		if err != nil {
			writeError(w, httperrors.NewHTTPError(http.StatusBadRequest, "ugyldig dato"), ReasonInvalidInput)
			return
		}
		date = &parsed
	}
	serviceID := r.URL.Query().Get("service_id")

	bookings, err := h.Repo.ListBookings(date, serviceID)
	if err != nil {
		writeError(w, httperrors.NewHTTPError(http.StatusInternalServerError, "database error"), ReasonInternal)
		return
	}

	list := entities.BookingsList{
		Total:    len(bookings),
		Bookings: make([]entities.BookingResponse, 0, len(bookings)),
	}
	for _, booking := range bookings {
		list.Bookings = append(list.Bookings, toBookingResponse(booking))
	}
	writeJSON(w, http.StatusOK, list)
}

// ListNotifications handles GET /admin/notifications: the recent confirmation
// dispatch outcomes, oldest first.
func (h *AdminHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Notifications.Entries())
}

func toBookingResponse(booking db.Booking) entities.BookingResponse {
	return entities.BookingResponse{
		ID:          booking.ID,
		Code:        booking.Code,
		Name:        booking.Name,
		Email:       booking.Email,
		Phone:       booking.Phone,
		ServiceID:   booking.ServiceID,
		ServiceName: booking.ServiceName,
		Price:       booking.Price,
		StartAt:     booking.StartAt,
		CreatedAt:   booking.CreatedAt,
	}
}
