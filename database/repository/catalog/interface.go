// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"

	"staybook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogRepository is a read-only view over the catalog collections owned by
// the property-management side of the platform. The engine only checks
// existence, ownership and the active flag, and reads policies for
// snapshotting. Lookups return nil when nothing matches.
type CatalogRepository interface {
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	GetRoomType(ctx context.Context, id string) (*models.RoomType, error)
	GetRoomsByIDs(ctx context.Context, ids []string) ([]models.Room, error)
	GetMealPlan(ctx context.Context, id string) (*models.MealPlan, error)
	GetPolicy(ctx context.Context, id string) (*models.CancellationPolicy, error)
}

type mongoCatalogRepo struct {
	properties *mongo.Collection
	roomTypes  *mongo.Collection
	rooms      *mongo.Collection
	mealPlans  *mongo.Collection
	policies   *mongo.Collection
}

// NewMongoCatalogRepo constructs a MongoDB-backed CatalogRepository.
func NewMongoCatalogRepo(db *mongo.Database) CatalogRepository {
	return &mongoCatalogRepo{
		properties: db.Collection("properties"),
		roomTypes:  db.Collection("room_types"),
		rooms:      db.Collection("rooms"),
		mealPlans:  db.Collection("meal_plans"),
		policies:   db.Collection("cancellation_policies"),
	}
}
