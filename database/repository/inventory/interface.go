// File: database/repository/inventory/interface.go
package cellRepo

import (
	"context"
	"time"

	"staybook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CellRepository persists RoomDateCells. All mutation goes through the
// inventory hold manager; nothing else writes this collection.
type CellRepository interface {
	FindActiveByRoomAndDates(ctx context.Context, roomID string, dates []string) ([]models.RoomDateCell, error)
	FindActiveByHolder(ctx context.Context, holderRef string) ([]models.RoomDateCell, error)
	InsertCells(ctx context.Context, cells []models.RoomDateCell) error
	FinalizeByHolder(ctx context.Context, holderRef, newHolderRef string, now time.Time) (int64, error)
	ReleaseByHolder(ctx context.Context, holderRef string, now time.Time) (int64, error)
	RetireCells(ctx context.Context, ids []string, now time.Time) error
	EnsureIndexes() error
}

type mongoCellRepo struct {
	coll *mongo.Collection
}

// NewMongoCellRepo constructs a MongoDB-backed CellRepository.
func NewMongoCellRepo(db *mongo.Database) CellRepository {
	return &mongoCellRepo{
		coll: db.Collection("room_date_cells"),
	}
}
