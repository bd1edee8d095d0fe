package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventhub/internal/domain"
)

type bookingRepository struct {
	DB *sql.DB
}

// NewBookingRepository returns a BookingRepository over the bookings table. The
// UNIQUE (event_id, email) constraint rejects concurrent duplicates.
func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (event_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, b.EventID, b.Email, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	if err != nil {
		switch pqCode(err) {
		case uniqueViolation:
			return domain.ErrDuplicateBooking
		case foreignKeyViolation, invalidTextRepresent:
			return domain.NewNotFoundError(domain.EntityEvent)
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id::text = $1`, eventID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
