package service

import (
	"fmt"
	"regexp"
	"strings"

	"timebestilling/internal/entities"
)

// ValidationError rejects a malformed submission before any side effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\d{8}$`)
)

func validateBookingRequest(req *entities.BookingRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "name", Message: "navn er påkrevd"}
	}
	if !emailRe.MatchString(req.Email) {
		return &ValidationError{Field: "email", Message: "ugyldig e-postadresse"}
	}
	if !phoneRe.MatchString(req.Phone) {
		return &ValidationError{Field: "phone", Message: "telefonnummer må være 8 siffer"}
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		return &ValidationError{Field: "service_id", Message: "behandling er påkrevd"}
	}
	if strings.TrimSpace(req.ServiceName) == "" {
		return &ValidationError{Field: "service_name", Message: "behandling er påkrevd"}
	}
	if req.Price <= 0 {
		return &ValidationError{Field: "price", Message: "pris må være større enn 0"}
	}
	return nil
}
