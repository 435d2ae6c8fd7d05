package timeslotRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthcart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recomputeAvailability is the trailing pipeline stage of every counter write.
var recomputeAvailability = bson.D{
	{Key: "$set", Value: bson.D{
		{Key: "isAvailable", Value: bson.D{{Key: "$lt", Value: bson.A{"$currentBookings", "$maxBookings"}}}},
	}},
}

// Reserve claims one unit for entry.OrderID. The capacity check, the duplicate check and the
// increment are evaluated by the server inside a single findAndModify, so concurrent callers
// cannot both take the last unit.
func (r *mongoTimeSlotRepo) Reserve(
	ctx context.Context,
	folderID string, date time.Time, hour int,
	entry models.BookingEntry,
) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := slotKey(folderID, date, hour)
	filter["bookings.orderId"] = bson.M{"$ne": entry.OrderID}
	filter["$expr"] = bson.M{"$lt": bson.A{"$currentBookings", "$maxBookings"}}

	entryDoc := bson.D{
		{Key: "orderId", Value: entry.OrderID},
		{Key: "patientName", Value: entry.PatientName},
		{Key: "patientPhone", Value: entry.PatientPhone},
		{Key: "bookedAt", Value: entry.BookedAt},
	}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "bookings", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$bookings", bson.A{}}}},
				bson.A{bson.D{{Key: "$literal", Value: entryDoc}}},
			}}}},
			{Key: "currentBookings", Value: bson.D{{Key: "$add", Value: bson.A{"$currentBookings", 1}}}},
			{Key: "updatedAt", Value: entry.BookedAt},
		}}},
		recomputeAvailability,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var slot models.TimeSlot
	if err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to reserve timeslot: %w", err)
	}
	return &slot, nil
}

// Release removes the order's entry and decrements the counter, floored at zero.
func (r *mongoTimeSlotRepo) Release(
	ctx context.Context,
	folderID string, date time.Time, hour int,
	orderID string,
) (*models.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := slotKey(folderID, date, hour)
	filter["bookings.orderId"] = orderID

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "bookings", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: "$bookings"},
				{Key: "as", Value: "b"},
				{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$b.orderId", bson.D{{Key: "$literal", Value: orderID}}}}}},
			}}}},
			{Key: "currentBookings", Value: bson.D{{Key: "$max", Value: bson.A{
				0,
				bson.D{{Key: "$subtract", Value: bson.A{"$currentBookings", 1}}},
			}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		recomputeAvailability,
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var slot models.TimeSlot
	if err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to release timeslot: %w", err)
	}
	return &slot, nil
}

func (r *mongoTimeSlotRepo) DailyAggregate(ctx context.Context, folderID string, date time.Time) (Aggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"folderId": folderID, "date": date}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"totalSlots":     bson.M{"$sum": 1},
			"totalBookings":  bson.M{"$sum": "$currentBookings"},
			"availableSlots": bson.M{"$sum": bson.M{"$cond": bson.A{"$isAvailable", 1, 0}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return Aggregate{}, fmt.Errorf("failed to aggregate timeslot stats: %w", err)
	}
	defer cursor.Close(ctx)

	var result []Aggregate
	if err := cursor.All(ctx, &result); err != nil {
		return Aggregate{}, fmt.Errorf("decode error: %w", err)
	}
	if len(result) == 0 {
		return Aggregate{}, nil
	}
	return result[0], nil
}
