// File: database/repository/catalog/reads.go
package catalogRepo

import (
	"context"
	"errors"

	"staybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoCatalogRepo) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	if err := r.properties.FindOne(ctx, bson.M{"id": id}).Decode(&property); err != nil {
		return nil, ignoreNoDocuments(err)
	}
	return &property, nil
}

func (r *mongoCatalogRepo) GetRoomType(ctx context.Context, id string) (*models.RoomType, error) {
	var roomType models.RoomType
	if err := r.roomTypes.FindOne(ctx, bson.M{"id": id}).Decode(&roomType); err != nil {
		return nil, ignoreNoDocuments(err)
	}
	return &roomType, nil
}

func (r *mongoCatalogRepo) GetRoomsByIDs(ctx context.Context, ids []string) ([]models.Room, error) {
	cursor, err := r.rooms.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rooms []models.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *mongoCatalogRepo) GetMealPlan(ctx context.Context, id string) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := r.mealPlans.FindOne(ctx, bson.M{"id": id}).Decode(&plan); err != nil {
		return nil, ignoreNoDocuments(err)
	}
	return &plan, nil
}

func (r *mongoCatalogRepo) GetPolicy(ctx context.Context, id string) (*models.CancellationPolicy, error) {
	var policy models.CancellationPolicy
	if err := r.policies.FindOne(ctx, bson.M{"id": id}).Decode(&policy); err != nil {
		return nil, ignoreNoDocuments(err)
	}
	return &policy, nil
}

func ignoreNoDocuments(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}
