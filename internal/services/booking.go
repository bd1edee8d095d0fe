package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/normalize"
)

type bookingService struct {
	bookingRepo    domain.BookingRepository
	events         domain.EventService
	emailService   domain.EmailService
	publicBaseURL  string
	contextTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// NewBookingService returns the BookingService. emailService may be nil, in which case
// no confirmation email is sent.
func NewBookingService(
	bookingRepo domain.BookingRepository,
	events domain.EventService,
	emailService domain.EmailService,
	publicBaseURL string,
	timeout time.Duration,
	logger *slog.Logger,
) domain.BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookingService{
		bookingRepo:    bookingRepo,
		events:         events,
		emailService:   emailService,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		contextTimeout: timeout,
		logger:         logger,
		now:            time.Now,
	}
}

// Book reserves a spot for email at the event. The (event, email) pair is unique; a
// second booking fails with ErrDuplicateBooking. The confirmation email is best-effort.
func (s *bookingService) Book(ctx context.Context, eventID, email string) (*domain.Booking, error) {
	email, err := normalize.Email(email)
	if err != nil {
		return nil, domain.NewValidationError("email", "must be a valid email address")
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	booking := domain.NewBooking(event.ID, email, now, now)

	createCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	if err := s.bookingRepo.Create(createCtx, booking); err != nil {
		if errors.Is(err, domain.ErrDuplicateBooking) {
			return nil, domain.ErrDuplicateBooking
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.sendConfirmation(ctx, event, booking)
	return booking, nil
}

func (s *bookingService) sendConfirmation(ctx context.Context, event *domain.Event, booking *domain.Booking) {
	if s.emailService == nil {
		return
	}
	data := &domain.BookingConfirmationEmailData{
		Email:      booking.Email,
		BookingID:  booking.ID,
		EventTitle: event.Title,
		EventSlug:  event.Slug,
		EventURL:   s.publicBaseURL + "/events/" + event.Slug,
		Date:       event.Date,
		Time:       event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation email failed",
			"booking_id", booking.ID, "event_id", event.ID, "err", err)
	}
}

func (s *bookingService) CountForEvent(ctx context.Context, eventID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.bookingRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}
