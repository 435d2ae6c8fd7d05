// File: database/repository/timeslot/queries.go
package timeslotRepo

import (
	"context"
	"fmt"
	"time"

	"healthcart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (repo *mongoTimeSlotRepo) FindByFolderAndDate(ctx context.Context, folderID string, date time.Time) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"folderId": folderID, "date": date}
	opts := options.Find().SetSort(bson.D{{Key: "hour", Value: 1}})

	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (repo *mongoTimeSlotRepo) ListByFolder(ctx context.Context, folderID string, date *time.Time) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"folderId": folderID}
	if date != nil {
		filter["date"] = *date
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "hour", Value: 1}})

	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []models.TimeSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}

func (repo *mongoTimeSlotRepo) ListWithBookingsBefore(ctx context.Context, cutoff time.Time) ([]models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{"bookings.bookedAt": bson.M{"$lt": cutoff}}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan booked timeslots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.TimeSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding timeslots: %w", err)
	}
	return slots, nil
}
