package mongodb

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookingDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	EventID   primitive.ObjectID `bson:"eventId"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type bookingRepository struct {
	db DatabaseProvider
}

// NewBookingRepository returns a BookingRepository backed by the "bookings" collection.
// The unique (eventId, email) index is what rejects concurrent duplicate bookings.
func NewBookingRepository(db DatabaseProvider) domain.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(bookingsCollection), nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	eventID, err := primitive.ObjectIDFromHex(booking.EventID)
	if err != nil {
		return domain.NewNotFoundError(domain.EntityEvent)
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}
	res, err := coll.InsertOne(ctx, bookingDocument{
		EventID:   eventID,
		Email:     booking.Email,
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateBooking
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *bookingRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return 0, nil
	}
	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, bson.M{"eventId": oid})
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return int(n), nil
}
