// File: database/repository/payment/crud.go
package paymentRepo

import (
	"context"
	"errors"
	"fmt"

	"staybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoPaymentRepo) Insert(ctx context.Context, record models.PaymentRecord) error {
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("payment %s already recorded: %w", record.GatewayPaymentRef, models.ErrConflict)
		}
		return fmt.Errorf("failed to insert payment record: %w", err)
	}
	return nil
}

func (r *mongoPaymentRepo) FindByGatewayPaymentRef(ctx context.Context, ref string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.coll.FindOne(ctx, bson.M{"gateway_payment_ref": ref}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
