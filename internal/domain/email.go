package domain

import "context"

// EmailMessage is one outgoing email. Either body may be empty, not both.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers rendered emails.
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// TicketCodeEncoder renders a scannable code (e.g. a QR PNG) for a booking, returned as a data URI.
type TicketCodeEncoder interface {
	Encode(content string) (dataURI string, err error)
}

// BookingConfirmationEmailData holds data for the booking confirmation email.
type BookingConfirmationEmailData struct {
	Email      string
	BookingID  string
	EventTitle string
	EventSlug  string
	EventURL   string
	Date       string
	Time       string
	Venue      string
	Location   string
	TicketCode string // data URI, optional
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendBookingConfirmation(ctx context.Context, data *BookingConfirmationEmailData) error
}
