package reconcile

import (
	"context"
	"testing"
	"time"

	"healthcart/database/repository/memory"
	orderRepo "healthcart/database/repository/order"
	"healthcart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	now  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	day  = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	past = now.Add(-time.Hour)
)

func newTestReconciler() (*Reconciler, *memory.Store) {
	store := memory.NewStore()
	return &Reconciler{
		Slots:  store.Slots(),
		Orders: store.Orders(),
		Grace:  10 * time.Minute,
		Now:    func() time.Time { return now },
		Logger: zap.NewNop(),
	}, store
}

func entry(orderID string, at time.Time) models.BookingEntry {
	return models.BookingEntry{OrderID: orderID, BookedAt: at}
}

func stamp(hour int, at time.Time) *models.BookingDetails {
	return &models.BookingDetails{FolderID: "f1", Date: day, Hour: hour, BookedAt: at}
}

func TestRun_ReleasesEntriesWithoutMatchingStamp(t *testing.T) {
	r, store := newTestReconciler()
	ctx := context.Background()

	store.PutSlot(models.TimeSlot{
		FolderID: "f1", Date: day, Hour: 10, MaxBookings: 3, CurrentBookings: 3,
		Bookings: []models.BookingEntry{
			entry("healthy", past),
			entry("unstamped", past),
			entry("deleted", past),
		},
	})
	store.PutOrder(models.Order{ID: "healthy", OrderStatus: models.OrderScheduled, BookingDetails: stamp(10, past)})
	store.PutOrder(models.Order{ID: "unstamped", OrderStatus: models.OrderPending})

	report, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.ReleasedEntries)
	assert.Equal(t, 0, report.ClearedStamps)
	assert.Empty(t, report.Errors)

	slot, err := store.Slots().Find(ctx, "f1", day, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, slot.CurrentBookings)
	assert.True(t, slot.HasBooking("healthy"))
	assert.True(t, slot.IsAvailable)
}

func TestRun_LeavesRecentEntriesAlone(t *testing.T) {
	r, store := newTestReconciler()

	store.PutSlot(models.TimeSlot{
		FolderID: "f1", Date: day, Hour: 10, MaxBookings: 3, CurrentBookings: 1,
		Bookings: []models.BookingEntry{entry("in-flight", now.Add(-time.Minute))},
	})
	store.PutOrder(models.Order{ID: "in-flight", OrderStatus: models.OrderPending})

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.ReleasedEntries)

	slot, _ := store.Slots().Find(context.Background(), "f1", day, 10)
	assert.Equal(t, 1, slot.CurrentBookings)
}

func TestRun_ClearsStampsWithoutLedgerEntry(t *testing.T) {
	r, store := newTestReconciler()
	ctx := context.Background()

	store.PutSlot(models.TimeSlot{FolderID: "f1", Date: day, Hour: 11, MaxBookings: 3})
	store.PutOrder(models.Order{ID: "no-entry", OrderStatus: models.OrderScheduled, BookingDetails: stamp(11, past)})
	store.PutOrder(models.Order{ID: "no-slot", OrderStatus: models.OrderScheduled, BookingDetails: stamp(15, past)})
	store.PutOrder(models.Order{ID: "collected", OrderStatus: models.OrderSampleCollected, BookingDetails: stamp(11, past)})

	report, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.ClearedStamps)

	for _, id := range []string{"no-entry", "no-slot"} {
		o, err := store.Orders().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, o.OrderStatus, id)
		assert.Nil(t, o.BookingDetails, id)
	}

	collected, _ := store.Orders().GetByID(ctx, "collected")
	assert.NotNil(t, collected.BookingDetails)
}

// rebookingOrders moves the order to a new slot right after the reconciler takes its snapshot.
type rebookingOrders struct {
	orderRepo.OrderRepository
	rebook func(ctx context.Context)
}

func (r *rebookingOrders) ListStampedBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	orders, err := r.OrderRepository.ListStampedBefore(ctx, cutoff)
	if err == nil && r.rebook != nil {
		r.rebook(ctx)
		r.rebook = nil
	}
	return orders, err
}

func TestRun_KeepsStampReplacedAfterScan(t *testing.T) {
	r, store := newTestReconciler()
	ctx := context.Background()

	store.PutSlot(models.TimeSlot{FolderID: "f1", Date: day, Hour: 10, MaxBookings: 3})
	store.PutSlot(models.TimeSlot{FolderID: "f1", Date: day, Hour: 14, MaxBookings: 3})
	store.PutOrder(models.Order{ID: "o1", OrderStatus: models.OrderScheduled, BookingDetails: stamp(10, past)})

	r.Orders = &rebookingOrders{
		OrderRepository: store.Orders(),
		rebook: func(ctx context.Context) {
			_, err := store.Slots().Reserve(ctx, "f1", day, 14, entry("o1", now))
			require.NoError(t, err)
			require.NoError(t, store.Orders().ClearBooking(ctx, "o1", models.OrderPending))
			require.NoError(t, store.Orders().SetBooking(ctx, "o1", *stamp(14, now)))
		},
	}

	report, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.ClearedStamps)
	assert.Empty(t, report.Errors)

	o, err := store.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderScheduled, o.OrderStatus)
	require.NotNil(t, o.BookingDetails)
	assert.Equal(t, 14, o.BookingDetails.Hour)

	slot, err := store.Slots().Find(ctx, "f1", day, 14)
	require.NoError(t, err)
	assert.True(t, slot.HasBooking("o1"))
}
