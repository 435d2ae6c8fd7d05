// File: database/repository/timeslot/interface.go
package timeslotRepo

import (
	"context"
	"errors"
	"time"

	"healthcart/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrSlotUnavailable means the conditional reservation matched nothing: the slot is
	// full, missing, or already holds the order.
	ErrSlotUnavailable = errors.New("timeslot has no remaining capacity")
	// ErrBookingNotFound means the slot holds no entry for the order.
	ErrBookingNotFound = errors.New("booking entry not found in timeslot")
)

// Aggregate is the raw daily rollup of a folder's ledger.
type Aggregate struct {
	TotalSlots     int `bson:"totalSlots"`
	TotalBookings  int `bson:"totalBookings"`
	AvailableSlots int `bson:"availableSlots"`
}

type TimeSlotRepository interface {
	// GetOrCreate returns the slot for the triple, inserting it with maxBookings when absent.
	GetOrCreate(ctx context.Context, folderID string, date time.Time, hour, maxBookings int) (*models.TimeSlot, error)
	Find(ctx context.Context, folderID string, date time.Time, hour int) (*models.TimeSlot, error)
	FindByFolderAndDate(ctx context.Context, folderID string, date time.Time) ([]models.TimeSlot, error)
	ListByFolder(ctx context.Context, folderID string, date *time.Time) ([]models.TimeSlot, error)
	Reserve(ctx context.Context, folderID string, date time.Time, hour int, entry models.BookingEntry) (*models.TimeSlot, error)
	Release(ctx context.Context, folderID string, date time.Time, hour int, orderID string) (*models.TimeSlot, error)
	DeleteByFolder(ctx context.Context, folderID string) (int64, error)
	DailyAggregate(ctx context.Context, folderID string, date time.Time) (Aggregate, error)
	// ListWithBookingsBefore returns slots holding at least one entry booked before cutoff.
	ListWithBookingsBefore(ctx context.Context, cutoff time.Time) ([]models.TimeSlot, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoTimeSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoTimeSlotRepo constructs a new MongoDB TimeSlotRepository.
func NewMongoTimeSlotRepo(db *mongo.Database) TimeSlotRepository {
	return &mongoTimeSlotRepo{
		coll: db.Collection("timeslots"),
	}
}
