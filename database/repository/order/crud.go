// File: database/repository/order/crud.go
package orderRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoOrderRepo) Insert(ctx context.Context, order models.Order) error {
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *mongoOrderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoOrderRepo) FindByGatewayOrderRef(ctx context.Context, ref string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"gateway_order_ref": ref})
}

func (r *mongoOrderRepo) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := r.coll.FindOne(ctx, filter).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// MarkSuccess and MarkFailed filter on status PENDING so the terminal states
// cannot be overwritten: a caller racing against a concurrent transition gets
// ErrConflict and must re-read the order instead of clobbering it.
func (r *mongoOrderRepo) MarkSuccess(ctx context.Context, id, gatewayPaymentRef, signature string, now time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"status":              models.OrderStatusSuccess,
			"gateway_payment_ref": gatewayPaymentRef,
			"gateway_signature":   signature,
			"updated_at":          now,
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": models.OrderStatusPending}, update)
	if err != nil {
		return fmt.Errorf("failed to mark order success: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %s is not pending: %w", id, models.ErrConflict)
	}
	return nil
}

func (r *mongoOrderRepo) MarkFailed(ctx context.Context, id string, now time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"status":     models.OrderStatusFailed,
			"updated_at": now,
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "status": models.OrderStatusPending}, update)
	if err != nil {
		return fmt.Errorf("failed to mark order failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %s is not pending: %w", id, models.ErrConflict)
	}
	return nil
}

func (r *mongoOrderRepo) FindExpiredPending(ctx context.Context, now time.Time, limit int64) ([]models.Order, error) {
	filter := bson.M{
		"status":     models.OrderStatusPending,
		"expires_at": bson.M{"$lt": now},
	}
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "expires_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
