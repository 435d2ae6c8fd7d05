package orderRepo

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

func (r *mongoOrderRepo) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *mongoOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	return &order, nil
}

func (r *mongoOrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoOrderRepo) List(ctx context.Context, status string) ([]models.Order, error) {
	filter := bson.M{}
	if status != "" {
		filter["orderStatus"] = status
	}
	return r.find(ctx, filter)
}

func (r *mongoOrderRepo) ListStampedBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	return r.find(ctx, bson.M{
		"bookingDetails":          bson.M{"$ne": nil},
		"bookingDetails.bookedAt": bson.M{"$lt": cutoff},
	})
}

func (r *mongoOrderRepo) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("error decoding orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepo) SetBooking(ctx context.Context, orderID string, details models.BookingDetails) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             orderID,
		"orderStatus":    models.OrderPending,
		"bookingDetails": nil,
	}
	update := bson.M{"$set": bson.M{
		"bookingDetails": details,
		"orderStatus":    models.OrderScheduled,
		"updatedAt":      time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to stamp order %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return ErrStampConflict
	}
	return nil
}

func (r *mongoOrderRepo) ClearBooking(ctx context.Context, orderID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"bookingDetails": nil,
		"orderStatus":    status,
		"updatedAt":      time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": orderID}, update)
	if err != nil {
		return fmt.Errorf("failed to clear booking on order %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *mongoOrderRepo) ClearBookingIf(ctx context.Context, orderID string, expected models.BookingDetails, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":                      orderID,
		"orderStatus":             models.OrderScheduled,
		"bookingDetails.folderId": expected.FolderID,
		"bookingDetails.date":     expected.Date,
		"bookingDetails.hour":     expected.Hour,
		"bookingDetails.bookedAt": expected.BookedAt,
	}
	update := bson.M{"$set": bson.M{
		"bookingDetails": nil,
		"orderStatus":    status,
		"updatedAt":      time.Now().UTC(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to clear booking on order %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return ErrStampChanged
	}
	return nil
}

func (r *mongoOrderRepo) UpdateStatus(ctx context.Context, orderID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"orderStatus": status, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": orderID}, update)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the orders collection.
func (r *mongoOrderRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("user_created_idx")},
		{Keys: bson.D{{Key: "bookingDetails.bookedAt", Value: 1}}, Options: options.Index().SetName("booked_at_idx").SetSparse(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}
