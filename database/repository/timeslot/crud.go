// File: database/repository/timeslot/crud.go
package timeslotRepo

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

func slotKey(folderID string, date time.Time, hour int) bson.M {
	return bson.M{"folderId": folderID, "date": date, "hour": hour}
}

// GetOrCreate upserts on the unique (folderId, date, hour) key. Two first-time callers can
// both attempt the insert; the loser gets a duplicate-key error and re-reads the winner's row.
func (r *mongoTimeSlotRepo) GetOrCreate(ctx context.Context, folderID string, date time.Time, hour, maxBookings int) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$setOnInsert": bson.M{
			"id":              uuid.New().String(),
			"currentBookings": 0,
			"maxBookings":     maxBookings,
			"bookings":        bson.A{},
			"isAvailable":     maxBookings > 0,
			"createdAt":       now,
			"updatedAt":       now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var slot models.TimeSlot
	err := r.coll.FindOneAndUpdate(ctx, slotKey(folderID, date, hour), update, opts).Decode(&slot)
	if err == nil {
		return &slot, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("failed to load or create timeslot: %w", err)
	}

	if err := r.coll.FindOne(ctx, slotKey(folderID, date, hour)).Decode(&slot); err != nil {
		return nil, fmt.Errorf("failed to re-read timeslot after insert race: %w", err)
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) Find(ctx context.Context, folderID string, date time.Time, hour int) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.TimeSlot
	if err := r.coll.FindOne(ctx, slotKey(folderID, date, hour)).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) DeleteByFolder(ctx context.Context, folderID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"folderId": folderID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete timeslots for folder %s: %w", folderID, err)
	}
	return res.DeletedCount, nil
}
