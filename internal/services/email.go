package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventhub/internal/domain"
)

const bookingConfirmationTemplate = "booking_confirmation"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	tickets  domain.TicketCodeEncoder
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
// tickets may be nil; the confirmation email then carries no scannable code.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, tickets domain.TicketCodeEncoder, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, tickets: tickets, logger: logger}
}

// SendBookingConfirmation sends the "booking_confirmation" email, embedding a QR code of the
// booking reference when an encoder is configured.
func (s *emailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("booking confirmation data is nil")
	}
	if data.TicketCode == "" && s.tickets != nil {
		code, err := s.tickets.Encode(ticketContent(data))
		if err != nil {
			s.logger.WarnContext(ctx, "ticket code encoding failed", "booking_id", data.BookingID, "err", err)
		} else {
			data.TicketCode = code
		}
	}
	subject, htmlBody, textBody, err := s.renderer.Render(bookingConfirmationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", bookingConfirmationTemplate, err)
	}
	msg := &domain.EmailMessage{To: data.Email, Subject: subject, HTML: htmlBody, Text: textBody}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send booking confirmation email: %w", err)
	}
	s.logger.InfoContext(ctx, "booking confirmation sent", "booking_id", data.BookingID, "event", data.EventSlug)
	return nil
}

func ticketContent(data *domain.BookingConfirmationEmailData) string {
	return fmt.Sprintf("booking:%s;event:%s;email:%s", data.BookingID, data.EventSlug, data.Email)
}
