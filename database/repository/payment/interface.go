// File: database/repository/payment/interface.go
package paymentRepo

import (
	"context"

	"staybook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentRepository persists payment records. The unique index on
// gateway_payment_ref makes the record the global idempotency anchor: the
// second insert for the same external payment reference fails.
type PaymentRepository interface {
	Insert(ctx context.Context, record models.PaymentRecord) error
	FindByGatewayPaymentRef(ctx context.Context, ref string) (*models.PaymentRecord, error)
	EnsureIndexes() error
}

type mongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo constructs a MongoDB-backed PaymentRepository.
func NewMongoPaymentRepo(db *mongo.Database) PaymentRepository {
	return &mongoPaymentRepo{
		coll: db.Collection("payments"),
	}
}
