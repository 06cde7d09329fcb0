// File: database/repository/order/interface.go
package orderRepo

import (
	"context"
	"time"

	"staybook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// OrderRepository persists provisional orders and their line selections.
// Status transitions happen only through the settlement engine and the
// expired-hold sweeper.
type OrderRepository interface {
	Insert(ctx context.Context, order models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByGatewayOrderRef(ctx context.Context, ref string) (*models.Order, error)
	// MarkSuccess and MarkFailed transition only orders still in PENDING and
	// return ErrConflict when the order already reached a terminal state.
	MarkSuccess(ctx context.Context, id, gatewayPaymentRef, signature string, now time.Time) error
	MarkFailed(ctx context.Context, id string, now time.Time) error
	FindExpiredPending(ctx context.Context, now time.Time, limit int64) ([]models.Order, error)
	EnsureIndexes() error
}

type mongoOrderRepo struct {
	coll *mongo.Collection
}

// NewMongoOrderRepo constructs a MongoDB-backed OrderRepository.
func NewMongoOrderRepo(db *mongo.Database) OrderRepository {
	return &mongoOrderRepo{
		coll: db.Collection("orders"),
	}
}
