package domain

import (
	"context"
	"time"
)

// Booking represents a visitor's reserved spot at an event.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking creates a new Booking. ID is typically set by the repository on create.
func NewBooking(eventID, email string, createdAt, updatedAt time.Time) *Booking {
	return &Booking{
		EventID:   eventID,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// BookingRepository defines storage operations for bookings.
// Create must return ErrDuplicateBooking when the (event, email) unique constraint rejects the write.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// BookingService defines visitor-facing booking operations.
type BookingService interface {
	Book(ctx context.Context, eventID, email string) (*Booking, error)
	CountForEvent(ctx context.Context, eventID string) (int, error)
}
