// File: database/repository/collector/crud.go
package collectorRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthcart/database"
	"healthcart/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoCollectorRepo) Create(ctx context.Context, folder *models.CollectorFolder) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, folder); err != nil {
		return fmt.Errorf("failed to create collector folder: %w", err)
	}
	return nil
}

func (r *mongoCollectorRepo) GetByID(ctx context.Context, id string) (*models.CollectorFolder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var folder models.CollectorFolder
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&folder); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch collector folder %s: %w", id, err)
	}
	return &folder, nil
}

func (r *mongoCollectorRepo) FindActiveByPincode(ctx context.Context, pincode string) (*models.CollectorFolder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var folder models.CollectorFolder
	err := r.coll.FindOne(ctx, bson.M{"pincodes": pincode, "isActive": true}).Decode(&folder)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up pincode %s: %w", pincode, err)
	}
	return &folder, nil
}

func (r *mongoCollectorRepo) FindActiveClaiming(ctx context.Context, pincodes []string, excludeID string) ([]models.CollectorFolder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"pincodes": bson.M{"$in": pincodes},
		"isActive": true,
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query pincode claims: %w", err)
	}
	defer cursor.Close(ctx)

	var folders []models.CollectorFolder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("error decoding collector folders: %w", err)
	}
	return folders, nil
}

func (r *mongoCollectorRepo) List(ctx context.Context, active *bool) ([]models.CollectorFolder, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if active != nil {
		filter["isActive"] = *active
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list collector folders: %w", err)
	}
	defer cursor.Close(ctx)

	folders := []models.CollectorFolder{}
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("error decoding collector folders: %w", err)
	}
	return folders, nil
}

func (r *mongoCollectorRepo) Update(ctx context.Context, folder *models.CollectorFolder) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	folder.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": folder.ID}, folder)
	if err != nil {
		return fmt.Errorf("failed to update collector folder %s: %w", folder.ID, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *mongoCollectorRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete collector folder %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
