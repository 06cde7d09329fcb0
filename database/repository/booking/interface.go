// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"staybook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists settled bookings. The unique index on order_id
// backs the one-order-one-booking guarantee.
type BookingRepository interface {
	Insert(ctx context.Context, booking models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Booking, error)
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB-backed BookingRepository.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
