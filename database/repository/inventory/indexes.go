// FILE: database/repository/inventory/indexes.go
package cellRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the room_date_cells
// collection. The partial unique index over (room_id, date) restricted to
// active cells is the storage-level guarantee behind "at most one active cell
// per (room, date)": a concurrent duplicate insert fails here instead of
// racing past an application-level check.
func (r *mongoCellRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "active", Value: true}}).
				SetName("unique_active_room_date"),
		},
		{
			Keys:    bson.D{{Key: "holder_ref", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("holder_active_idx"),
		},
		{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "status", Value: 1}, {Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("active_status_expiry_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create room date cell indexes: %w", err)
	}
	return nil
}
