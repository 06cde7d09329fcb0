// File: database/repository/inventory/crud.go
package cellRepo

import (
	"context"
	"fmt"
	"time"

	"staybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCellRepo) FindActiveByRoomAndDates(ctx context.Context, roomID string, dates []string) ([]models.RoomDateCell, error) {
	filter := bson.M{
		"room_id": roomID,
		"date":    bson.M{"$in": dates},
		"active":  true,
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cells []models.RoomDateCell
	if err := cursor.All(ctx, &cells); err != nil {
		return nil, err
	}
	return cells, nil
}

func (r *mongoCellRepo) FindActiveByHolder(ctx context.Context, holderRef string) ([]models.RoomDateCell, error) {
	filter := bson.M{"holder_ref": holderRef, "active": true}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cells []models.RoomDateCell
	if err := cursor.All(ctx, &cells); err != nil {
		return nil, err
	}
	return cells, nil
}

func (r *mongoCellRepo) InsertCells(ctx context.Context, cells []models.RoomDateCell) error {
	docs := make([]interface{}, len(cells))
	for i, cell := range cells {
		docs[i] = cell
	}
	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		// The partial unique index rejects a second active cell for the same
		// (room, date); surface it as an availability conflict.
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("room date cell already held: %w", models.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *mongoCellRepo) FinalizeByHolder(ctx context.Context, holderRef, newHolderRef string, now time.Time) (int64, error) {
	filter := bson.M{
		"holder_ref": holderRef,
		"active":     true,
		"status":     models.CellStatusBlocked,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.CellStatusBooked,
			"holder_ref": newHolderRef,
			"updated_at": now,
		},
		"$unset": bson.M{"expires_at": ""},
	}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to finalize cells: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoCellRepo) ReleaseByHolder(ctx context.Context, holderRef string, now time.Time) (int64, error) {
	filter := bson.M{
		"holder_ref": holderRef,
		"active":     true,
		"status":     models.CellStatusBlocked,
	}
	update := bson.M{
		"$set": bson.M{
			"active":      false,
			"released_at": now,
			"updated_at":  now,
		},
	}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to release cells: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *mongoCellRepo) RetireCells(ctx context.Context, ids []string, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	filter := bson.M{"id": bson.M{"$in": ids}, "active": true}
	update := bson.M{
		"$set": bson.M{
			"active":      false,
			"released_at": now,
			"updated_at":  now,
		},
	}
	_, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to retire cells: %w", err)
	}
	return nil
}
