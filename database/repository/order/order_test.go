package orderRepo

import (
	"context"
	"testing"
	"time"

	"healthcart/database"
	"healthcart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestSetBooking(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	details := models.BookingDetails{FolderID: "folder-1", Hour: 10, Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)}

	mt.Run("stamps a pending order", func(mt *mtest.T) {
		repo := NewMongoOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		assert.NoError(mt, repo.SetBooking(context.Background(), "order-1", details))
	})

	mt.Run("conflicts when the order moved on", func(mt *mtest.T) {
		repo := NewMongoOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		assert.ErrorIs(mt, repo.SetBooking(context.Background(), "order-1", details), ErrStampConflict)
	})
}

func TestClearBookingIf(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	bookedAt := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	expected := models.BookingDetails{
		FolderID: "folder-1", Hour: 10, BookedAt: bookedAt,
		Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
	}

	mt.Run("filters on the expected stamp", func(mt *mtest.T) {
		repo := NewMongoOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		require.NoError(mt, repo.ClearBookingIf(context.Background(), "order-1", expected, models.OrderPending))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		updates, err := started.Command.Lookup("updates").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, updates, 1)
		q := updates[0].Document().Lookup("q").Document()
		assert.Equal(mt, models.OrderScheduled, q.Lookup("orderStatus").StringValue())
		assert.Equal(mt, "folder-1", q.Lookup("bookingDetails.folderId").StringValue())
		assert.True(mt, q.Lookup("bookingDetails.bookedAt").Time().Equal(bookedAt))
	})

	mt.Run("skips a stamp that changed", func(mt *mtest.T) {
		repo := NewMongoOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		err := repo.ClearBookingIf(context.Background(), "order-1", expected, models.OrderPending)
		assert.ErrorIs(mt, err, ErrStampChanged)
	})
}

func TestGetByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMongoOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.orders", mtest.FirstBatch, bson.D{
			{Key: "id", Value: "order-1"},
			{Key: "userId", Value: "user-1"},
			{Key: "orderStatus", Value: models.OrderPending},
			{Key: "totalAmount", Value: 350.0},
		}))

		o, err := repo.GetByID(context.Background(), "order-1")
		require.NoError(mt, err)
		assert.Equal(mt, "user-1", o.UserID)
		assert.Nil(mt, o.BookingDetails)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewMongoOrderRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.orders", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "order-1")
		assert.ErrorIs(mt, err, database.ErrNotFound)
	})
}
