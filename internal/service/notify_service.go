package service

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"timebestilling/internal/db"
	"timebestilling/internal/entities"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotificationResult is the structured outcome of one confirmation dispatch,
// kept for observability instead of being swallowed.
type NotificationResult struct {
	BookingCode string    `json:"booking_code"`
	Channel     string    `json:"channel"`
	Recipient   string    `json:"recipient"`
	At          time.Time `json:"at"`
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
}

// NotificationLog is a bounded in-memory record of recent dispatch outcomes.
type NotificationLog struct {
	mu      sync.Mutex
	max     int
	entries []NotificationResult
}

func NewNotificationLog(max int) *NotificationLog {
	return &NotificationLog{max: max}
}

func (l *NotificationLog) Record(res NotificationResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, res)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Entries returns a copy of the recorded results, oldest first.
func (l *NotificationLog) Entries() []NotificationResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]NotificationResult, len(l.entries))
	copy(out, l.entries)
	return out
}

// NotifyService sends booking confirmations to the customer and the salon
// owner. Every send is bounded by Timeout and its outcome recorded in Log;
// failures never propagate to the booking flow.
type NotifyService struct {
	Log     *NotificationLog
	Loc     *time.Location
	Timeout time.Duration
}

func NewNotifyService(logbook *NotificationLog, loc *time.Location) *NotifyService {
	return &NotifyService{Log: logbook, Loc: loc, Timeout: 15 * time.Second}
}

func (s *NotifyService) BookingConfirmed(booking db.Booking) {
	data := entities.BookingEmailData{
		Name:          booking.Name,
		Email:         booking.Email,
		Phone:         booking.Phone,
		BookingCode:   booking.Code,
		ServiceName:   booking.ServiceName,
		Price:         booking.Price,
		DateFormatted: booking.StartAt.In(s.Loc).Format("Monday 02 Jan 2006"),
		TimeFormatted: booking.StartAt.In(s.Loc).Format("15:04"),
		CurrentYear:   time.Now().In(s.Loc).Year(),
	}

	customerSubject := "Bekreftelse på din timebestilling - Beauty Center Skien"
	customerBody := fmt.Sprintf(
		"Hei %s,\n\nVi har mottatt din timebestilling og ser frem til å se deg!\n\n"+
			"Din bestilling:\n"+
			"Bestillingskode: %s\n"+
			"Behandling: %s\n"+
			"Pris: %d NOK\n"+
			"Dato: %s\n"+
			"Tidspunkt: %s\n\n"+
			"Møt opp 5 minutter før avtalt tid.\n\n"+
			"Med vennlig hilsen,\nBeauty Center Skien\n\n"+
			"Beauty Center Skien %d. Alle rettigheter reservert.",
		data.Name, data.BookingCode, data.ServiceName, data.Price,
		data.DateFormatted, data.TimeFormatted, data.CurrentYear,
	)

	ownerSubject := fmt.Sprintf("Ny timebestilling - %s - %s %s", data.ServiceName, data.DateFormatted, data.TimeFormatted)
	ownerBody := fmt.Sprintf(
		"Ny timebestilling!\n\n"+
			"Kunde: %s\nE-post: %s\nTelefon: %s\n\n"+
			"Behandling: %s\nPris: %d NOK\nDato: %s\nTidspunkt: %s\n"+
			"Bestillingskode: %s\n\n"+
			"Denne e-posten ble sendt automatisk fra booking-systemet.",
		data.Name, data.Email, data.Phone,
		data.ServiceName, data.Price, data.DateFormatted, data.TimeFormatted,
		data.BookingCode,
	)

	smsBody := fmt.Sprintf("Beauty Center Skien: Din time er bekreftet!\n%s kl %s.\nKode: %s. Detaljer i din e-post.",
		data.DateFormatted, data.TimeFormatted, data.BookingCode)

	ownerEmail := os.Getenv("BOOKING_OWNER_EMAIL")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.dispatch("email", booking.Email, booking.Code, func() error {
			return SendEmailWithSendGrid(booking.Email, booking.Name, customerSubject, customerBody)
		})
	}()
	go func() {
		defer wg.Done()
		if ownerEmail == "" {
			return
		}
		s.dispatch("email", ownerEmail, booking.Code, func() error {
			return SendEmailWithSendGrid(ownerEmail, "Beauty Center Skien", ownerSubject, ownerBody)
		})
	}()
	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.dispatch("sms", booking.Phone, booking.Code, func() error {
				return SendSMS("+47"+booking.Phone, smsBody)
			})
		}()
	}
	wg.Wait()
}

// dispatch runs one send, bounded by the configured timeout, and records the
// structured outcome. A send that outlives the timeout is recorded as failed
// even if it eventually completes.
func (s *NotifyService) dispatch(channel, recipient, code string, send func() error) {
	done := make(chan error, 1)
	go func() { done <- send() }()

	var err error
	select {
	case err = <-done:
	case <-time.After(s.Timeout):
		err = fmt.Errorf("send timed out after %s", s.Timeout)
	}

	result := NotificationResult{
		BookingCode: code,
		Channel:     channel,
		Recipient:   recipient,
		At:          time.Now().UTC(),
		OK:          err == nil,
	}
	if err != nil {
		result.Error = err.Error()
		log.Printf("ALERT: %s confirmation for booking %s to %s failed: %v", channel, code, recipient, err)
	}
	if s.Log != nil {
		s.Log.Record(result)
	}
}

// SendEmailWithSendGrid sends a plain-text email through SendGrid using the
// SENDGRID_* environment configuration.
func SendEmailWithSendGrid(toEmail, toName, subject, body string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not set")
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Beauty Center Skien"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email via SendGrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("SendGrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// SendSMS sends a text message through Twilio. The destination must be in
// E.164 format.
func SendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return fmt.Errorf("Twilio credentials are not fully configured")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("sending SMS via Twilio: %w", err)
	}
	return nil
}
