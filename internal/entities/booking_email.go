package entities

// BookingEmailData is the payload handed to the notification senders.
type BookingEmailData struct {
	Name          string
	Email         string
	Phone         string
	BookingCode   string
	ServiceName   string
	Price         int
	DateFormatted string
	TimeFormatted string
	CurrentYear   int
}
