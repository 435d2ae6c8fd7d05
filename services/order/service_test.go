package order

import (
	"context"
	"testing"
	"time"

	"healthcart/database/repository/memory"
	"healthcart/models"
	"healthcart/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type releaseRecorder struct {
	store    *memory.Store
	released []string
}

func (r *releaseRecorder) ReleaseForOrder(ctx context.Context, o *models.Order, status string) error {
	r.released = append(r.released, o.ID)
	if err := r.store.Orders().ClearBooking(ctx, o.ID, status); err != nil {
		return err
	}
	o.BookingDetails = nil
	o.OrderStatus = status
	return nil
}

func newTestService() (*DefaultOrderService, *memory.Store, *releaseRecorder) {
	store := memory.NewStore()
	rec := &releaseRecorder{store: store}
	svc := NewOrderService(store.Orders(), rec)
	svc.Now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, store, rec
}

func TestCreate_SumsItems(t *testing.T) {
	svc, _, _ := newTestService()

	o, err := svc.Create(context.Background(), models.Caller{UserID: "user-1"}, models.CreateOrderRequest{
		Items: []models.OrderItem{
			{TestID: "cbc", Name: "CBC", Price: 350.10},
			{TestID: "lft", Name: "Liver Function", Price: 899.95},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "user-1", o.UserID)
	assert.Equal(t, models.OrderPending, o.OrderStatus)
	assert.InDelta(t, 1250.05, o.TotalAmount, 0.001)
	assert.Nil(t, o.BookingDetails)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), models.Caller{UserID: "user-1"}, models.CreateOrderRequest{})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = svc.Create(context.Background(), models.Caller{UserID: "user-1"}, models.CreateOrderRequest{
		Items: []models.OrderItem{{TestID: "x", Name: "X", Price: -1}},
	})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestGet_OwnerOrAdmin(t *testing.T) {
	svc, store, _ := newTestService()
	store.PutOrder(models.Order{ID: "o1", UserID: "user-1", OrderStatus: models.OrderPending})

	_, err := svc.Get(context.Background(), models.Caller{UserID: "user-1"}, "o1")
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), models.Caller{UserID: "admin", IsAdmin: true}, "o1")
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), models.Caller{UserID: "user-2"}, "o1")
	assert.True(t, utils.IsKind(err, utils.KindForbidden))
	_, err = svc.Get(context.Background(), models.Caller{UserID: "user-1"}, "o2")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestListAll_FiltersByStatus(t *testing.T) {
	svc, store, _ := newTestService()
	store.PutOrder(models.Order{ID: "o1", UserID: "u", OrderStatus: models.OrderPending})
	store.PutOrder(models.Order{ID: "o2", UserID: "u", OrderStatus: models.OrderCompleted})

	all, err := svc.ListAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := svc.ListAll(context.Background(), models.OrderCompleted)
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "o2", done[0].ID)

	_, err = svc.ListAll(context.Background(), "shipped")
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestUpdateStatus(t *testing.T) {
	svc, store, rec := newTestService()
	stamp := &models.BookingDetails{FolderID: "f", Hour: 10, Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)}
	store.PutOrder(models.Order{ID: "booked", UserID: "u", OrderStatus: models.OrderScheduled, BookingDetails: stamp})
	store.PutOrder(models.Order{ID: "plain", UserID: "u", OrderStatus: models.OrderScheduled, BookingDetails: stamp})
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "plain", models.OrderScheduled)
	assert.True(t, utils.IsKind(err, utils.KindState))

	_, err = svc.UpdateStatus(ctx, "plain", "lost")
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	o, err := svc.UpdateStatus(ctx, "plain", models.OrderSampleCollected)
	require.NoError(t, err)
	assert.Equal(t, models.OrderSampleCollected, o.OrderStatus)
	assert.NotNil(t, o.BookingDetails)
	assert.Empty(t, rec.released)

	o, err = svc.UpdateStatus(ctx, "booked", models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, o.OrderStatus)
	assert.Nil(t, o.BookingDetails)
	assert.Equal(t, []string{"booked"}, rec.released)

	stored, _ := store.Orders().GetByID(ctx, "booked")
	assert.Equal(t, models.OrderCancelled, stored.OrderStatus)
	assert.Nil(t, stored.BookingDetails)

	_, err = svc.UpdateStatus(ctx, "missing", models.OrderCompleted)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}
