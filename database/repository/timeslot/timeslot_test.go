package timeslotRepo

import (
	"context"
	"testing"
	"time"

	"healthcart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var day = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

func slotDoc(current, max int, orderIDs ...string) bson.D {
	bookings := bson.A{}
	for _, id := range orderIDs {
		bookings = append(bookings, bson.D{{Key: "orderId", Value: id}, {Key: "bookedAt", Value: day}})
	}
	return bson.D{
		{Key: "id", Value: "slot-1"},
		{Key: "folderId", Value: "folder-1"},
		{Key: "date", Value: day},
		{Key: "hour", Value: 10},
		{Key: "currentBookings", Value: current},
		{Key: "maxBookings", Value: max},
		{Key: "bookings", Value: bookings},
		{Key: "isAvailable", Value: current < max},
	}
}

func findAndModifyReply(value interface{}) bson.D {
	return bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: value}}
}

// sentFindAndModify returns the filter and update pipeline of the last findAndModify sent.
func sentFindAndModify(mt *mtest.T) (bson.Raw, []bson.RawValue) {
	mt.Helper()
	started := mt.GetStartedEvent()
	require.NotNil(mt, started)
	require.Equal(mt, "findAndModify", started.CommandName)

	query := started.Command.Lookup("query").Document()
	stages, err := started.Command.Lookup("update").Array().Values()
	require.NoError(mt, err)
	return query, stages
}

func assertRecomputesAvailability(mt *mtest.T, stages []bson.RawValue) {
	mt.Helper()
	require.NotEmpty(mt, stages)
	last := stages[len(stages)-1].Document()
	operands, err := last.Lookup("$set", "isAvailable", "$lt").Array().Values()
	require.NoError(mt, err)
	require.Len(mt, operands, 2)
	assert.Equal(mt, "$currentBookings", operands[0].StringValue())
	assert.Equal(mt, "$maxBookings", operands[1].StringValue())
}

func TestReserve(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("claims a unit", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(findAndModifyReply(slotDoc(1, 2, "order-1")))

		slot, err := repo.Reserve(context.Background(), "folder-1", day, 10, models.BookingEntry{OrderID: "order-1", BookedAt: day})
		require.NoError(mt, err)
		assert.Equal(mt, 1, slot.CurrentBookings)
		assert.True(mt, slot.HasBooking("order-1"))
		assert.True(mt, slot.IsAvailable)
	})

	mt.Run("guards capacity and duplicates on the server", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(findAndModifyReply(slotDoc(1, 2, "order-1")))

		_, err := repo.Reserve(context.Background(), "folder-1", day, 10, models.BookingEntry{OrderID: "order-1", BookedAt: day})
		require.NoError(mt, err)

		query, stages := sentFindAndModify(mt)
		assert.Equal(mt, "folder-1", query.Lookup("folderId").StringValue())
		assert.Equal(mt, "order-1", query.Lookup("bookings.orderId", "$ne").StringValue())

		capacity, err := query.Lookup("$expr", "$lt").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, capacity, 2)
		assert.Equal(mt, "$currentBookings", capacity[0].StringValue())
		assert.Equal(mt, "$maxBookings", capacity[1].StringValue())

		require.Len(mt, stages, 2)
		_, err = stages[0].Document().LookupErr("$set", "currentBookings", "$add")
		assert.NoError(mt, err)
		assertRecomputesAvailability(mt, stages)
	})

	mt.Run("no match means unavailable", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(findAndModifyReply(nil))

		_, err := repo.Reserve(context.Background(), "folder-1", day, 10, models.BookingEntry{OrderID: "order-2", BookedAt: day})
		assert.ErrorIs(mt, err, ErrSlotUnavailable)
	})

	mt.Run("server error is wrapped", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value"}))

		_, err := repo.Reserve(context.Background(), "folder-1", day, 10, models.BookingEntry{OrderID: "order-2", BookedAt: day})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrSlotUnavailable)
	})
}

func TestRelease(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("removes the entry", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(findAndModifyReply(slotDoc(0, 2)))

		slot, err := repo.Release(context.Background(), "folder-1", day, 10, "order-1")
		require.NoError(mt, err)
		assert.Equal(mt, 0, slot.CurrentBookings)
		assert.False(mt, slot.HasBooking("order-1"))
	})

	mt.Run("matches only slots holding the order", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(findAndModifyReply(slotDoc(0, 2)))

		_, err := repo.Release(context.Background(), "folder-1", day, 10, "order-1")
		require.NoError(mt, err)

		query, stages := sentFindAndModify(mt)
		orderID, ok := query.Lookup("bookings.orderId").StringValueOK()
		require.True(mt, ok)
		assert.Equal(mt, "order-1", orderID)
		_, err = query.LookupErr("$expr")
		assert.Error(mt, err)

		require.Len(mt, stages, 2)
		_, err = stages[0].Document().LookupErr("$set", "currentBookings", "$max")
		assert.NoError(mt, err)
		assertRecomputesAvailability(mt, stages)
	})

	mt.Run("missing entry", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(findAndModifyReply(nil))

		_, err := repo.Release(context.Background(), "folder-1", day, 10, "order-1")
		assert.ErrorIs(mt, err, ErrBookingNotFound)
	})
}

func TestGetOrCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upserts", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(findAndModifyReply(slotDoc(0, 5)))

		slot, err := repo.GetOrCreate(context.Background(), "folder-1", day, 10, 5)
		require.NoError(mt, err)
		assert.Equal(mt, 5, slot.MaxBookings)
		assert.Equal(mt, 5, slot.RemainingSlots())
	})

	mt.Run("re-reads after losing the insert race", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Name: "DuplicateKey", Message: "E11000 duplicate key error"}),
			mtest.CreateCursorResponse(0, "test.timeslots", mtest.FirstBatch, slotDoc(3, 5)),
		)

		slot, err := repo.GetOrCreate(context.Background(), "folder-1", day, 10, 5)
		require.NoError(mt, err)
		assert.Equal(mt, 3, slot.CurrentBookings)
	})
}

func TestDailyAggregate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("sums the day", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.timeslots", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalSlots", Value: 10},
			{Key: "totalBookings", Value: 12},
			{Key: "availableSlots", Value: 7},
		}))

		agg, err := repo.DailyAggregate(context.Background(), "folder-1", day)
		require.NoError(mt, err)
		assert.Equal(mt, Aggregate{TotalSlots: 10, TotalBookings: 12, AvailableSlots: 7}, agg)
	})

	mt.Run("empty day", func(mt *mtest.T) {
		repo := NewMongoTimeSlotRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.timeslots", mtest.FirstBatch))

		agg, err := repo.DailyAggregate(context.Background(), "folder-1", day)
		require.NoError(mt, err)
		assert.Zero(mt, agg)
	})
}
