// FILE: database/repository/collector/indexes.go
package collectorRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the collector_folders collection.
func (r *mongoCollectorRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Multikey index backing pincode lookups.
		{
			Keys:    bson.D{{Key: "pincodes", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index().SetName("pincode_active_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create collector folder indexes: %w", err)
	}
	return nil
}
