// File: database/repository/collector/interface.go
package collectorRepo

import (
	"context"

	"healthcart/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type CollectorRepository interface {
	Create(ctx context.Context, folder *models.CollectorFolder) error
	GetByID(ctx context.Context, id string) (*models.CollectorFolder, error)
	FindActiveByPincode(ctx context.Context, pincode string) (*models.CollectorFolder, error)
	// FindActiveClaiming returns active folders other than excludeID that claim any of pincodes.
	FindActiveClaiming(ctx context.Context, pincodes []string, excludeID string) ([]models.CollectorFolder, error)
	List(ctx context.Context, active *bool) ([]models.CollectorFolder, error)
	Update(ctx context.Context, folder *models.CollectorFolder) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoCollectorRepo struct {
	coll *mongo.Collection
}

// NewMongoCollectorRepo constructs a MongoDB-backed CollectorRepository.
func NewMongoCollectorRepo(db *mongo.Database) CollectorRepository {
	return &mongoCollectorRepo{
		coll: db.Collection("collector_folders"),
	}
}
