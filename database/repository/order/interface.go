// File: database/repository/order/interface.go
package orderRepo

import (
	"context"
	"errors"
	"time"

	"healthcart/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrStampConflict means the order is no longer pending or already carries a booking stamp.
var ErrStampConflict = errors.New("order cannot take a booking stamp in its current state")

// ErrStampChanged means the order no longer carries the expected stamp or is no longer scheduled.
var ErrStampChanged = errors.New("order booking stamp changed")

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context, status string) ([]models.Order, error)
	// SetBooking stamps a pending, unstamped order and moves it to scheduled.
	SetBooking(ctx context.Context, orderID string, details models.BookingDetails) error
	// ClearBooking removes the stamp and sets status.
	ClearBooking(ctx context.Context, orderID, status string) error
	// ClearBookingIf clears the stamp only while the order is scheduled and still carries expected.
	ClearBookingIf(ctx context.Context, orderID string, expected models.BookingDetails, status string) error
	UpdateStatus(ctx context.Context, orderID, status string) error
	ListStampedBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoOrderRepo struct {
	coll *mongo.Collection
}

// NewMongoOrderRepo constructs a MongoDB-backed OrderRepository.
func NewMongoOrderRepo(db *mongo.Database) OrderRepository {
	return &mongoOrderRepo{coll: db.Collection("orders")}
}
