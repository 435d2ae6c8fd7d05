// Package memory holds in-process implementations of the repositories with the same
// conditional-write semantics as the MongoDB ones. Service tests run against it.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"healthcart/database"
	collectorRepo "healthcart/database/repository/collector"
	orderRepo "healthcart/database/repository/order"
	timeslotRepo "healthcart/database/repository/timeslot"
	userRepo "healthcart/database/repository/user"
	"healthcart/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type slotKey struct {
	folderID string
	date     time.Time
	hour     int
}

// Store is a shared in-memory database. All repositories built from it see the same data.
type Store struct {
	mu      sync.Mutex
	folders map[string]models.CollectorFolder
	slots   map[slotKey]*models.TimeSlot
	orders  map[string]models.Order
	users   map[string]models.User

	// SetBookingErr, when set, is returned by the next SetBooking call.
	SetBookingErr error
}

func NewStore() *Store {
	return &Store{
		folders: map[string]models.CollectorFolder{},
		slots:   map[slotKey]*models.TimeSlot{},
		orders:  map[string]models.Order{},
		users:   map[string]models.User{},
	}
}

func (s *Store) Folders() collectorRepo.CollectorRepository { return (*folderRepo)(s) }
func (s *Store) Slots() timeslotRepo.TimeSlotRepository     { return (*slotRepo)(s) }
func (s *Store) Orders() orderRepo.OrderRepository          { return (*ordersRepo)(s) }
func (s *Store) Users() userRepo.UserRepository             { return (*usersRepo)(s) }

// PutUser seeds an account.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutSlot seeds or overwrites a ledger row.
func (s *Store) PutSlot(ts models.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ts.ID == "" {
		ts.ID = uuid.New().String()
	}
	ts.IsAvailable = ts.CurrentBookings < ts.MaxBookings
	s.slots[slotKey{ts.FolderID, ts.Date, ts.Hour}] = &ts
}

// PutOrder seeds or overwrites an order.
func (s *Store) PutOrder(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

func copySlot(ts *models.TimeSlot) models.TimeSlot {
	out := *ts
	out.Bookings = append([]models.BookingEntry(nil), ts.Bookings...)
	return out
}

// ---- collector folders ----

type folderRepo Store

func (r *folderRepo) Create(_ context.Context, f *models.CollectorFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	f.CreatedAt, f.UpdatedAt = now, now
	r.folders[f.ID] = *f
	return nil
}

func (r *folderRepo) GetByID(_ context.Context, id string) (*models.CollectorFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &f, nil
}

func (r *folderRepo) FindActiveByPincode(_ context.Context, pincode string) (*models.CollectorFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if !f.IsActive {
			continue
		}
		for _, p := range f.Pincodes {
			if p == pincode {
				return &f, nil
			}
		}
	}
	return nil, database.ErrNotFound
}

func (r *folderRepo) FindActiveClaiming(_ context.Context, pincodes []string, excludeID string) ([]models.CollectorFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[string]bool{}
	for _, p := range pincodes {
		want[p] = true
	}
	var out []models.CollectorFolder
	for _, f := range r.folders {
		if !f.IsActive || f.ID == excludeID {
			continue
		}
		for _, p := range f.Pincodes {
			if want[p] {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (r *folderRepo) List(_ context.Context, active *bool) ([]models.CollectorFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.CollectorFolder{}
	for _, f := range r.folders {
		if active == nil || f.IsActive == *active {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *folderRepo) Update(_ context.Context, f *models.CollectorFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[f.ID]; !ok {
		return database.ErrNotFound
	}
	f.UpdatedAt = time.Now().UTC()
	r.folders[f.ID] = *f
	return nil
}

func (r *folderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.folders, id)
	return nil
}

func (r *folderRepo) EnsureIndexes(context.Context) error { return nil }

// ---- timeslots ----

type slotRepo Store

func (r *slotRepo) GetOrCreate(_ context.Context, folderID string, date time.Time, hour, maxBookings int) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := slotKey{folderID, date, hour}
	ts, ok := r.slots[key]
	if !ok {
		now := time.Now().UTC()
		ts = &models.TimeSlot{
			ID:          uuid.New().String(),
			FolderID:    folderID,
			Date:        date,
			Hour:        hour,
			MaxBookings: maxBookings,
			Bookings:    []models.BookingEntry{},
			IsAvailable: maxBookings > 0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		r.slots[key] = ts
	}
	out := copySlot(ts)
	return &out, nil
}

func (r *slotRepo) Find(_ context.Context, folderID string, date time.Time, hour int) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, ok := r.slots[slotKey{folderID, date, hour}]
	if !ok {
		return nil, database.ErrNotFound
	}
	out := copySlot(ts)
	return &out, nil
}

func (r *slotRepo) filter(match func(*models.TimeSlot) bool) []models.TimeSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.TimeSlot{}
	for _, ts := range r.slots {
		if match(ts) {
			out = append(out, copySlot(ts))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Hour < out[j].Hour
	})
	return out
}

func (r *slotRepo) FindByFolderAndDate(_ context.Context, folderID string, date time.Time) ([]models.TimeSlot, error) {
	return r.filter(func(ts *models.TimeSlot) bool {
		return ts.FolderID == folderID && ts.Date.Equal(date)
	}), nil
}

func (r *slotRepo) ListByFolder(_ context.Context, folderID string, date *time.Time) ([]models.TimeSlot, error) {
	return r.filter(func(ts *models.TimeSlot) bool {
		return ts.FolderID == folderID && (date == nil || ts.Date.Equal(*date))
	}), nil
}

func (r *slotRepo) Reserve(_ context.Context, folderID string, date time.Time, hour int, entry models.BookingEntry) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, ok := r.slots[slotKey{folderID, date, hour}]
	if !ok || ts.CurrentBookings >= ts.MaxBookings || ts.HasBooking(entry.OrderID) {
		return nil, timeslotRepo.ErrSlotUnavailable
	}
	ts.Bookings = append(ts.Bookings, entry)
	ts.CurrentBookings++
	ts.IsAvailable = ts.CurrentBookings < ts.MaxBookings
	ts.UpdatedAt = entry.BookedAt
	out := copySlot(ts)
	return &out, nil
}

func (r *slotRepo) Release(_ context.Context, folderID string, date time.Time, hour int, orderID string) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, ok := r.slots[slotKey{folderID, date, hour}]
	if !ok || !ts.HasBooking(orderID) {
		return nil, timeslotRepo.ErrBookingNotFound
	}
	kept := ts.Bookings[:0]
	for _, b := range ts.Bookings {
		if b.OrderID != orderID {
			kept = append(kept, b)
		}
	}
	ts.Bookings = kept
	if ts.CurrentBookings > 0 {
		ts.CurrentBookings--
	}
	ts.IsAvailable = ts.CurrentBookings < ts.MaxBookings
	ts.UpdatedAt = time.Now().UTC()
	out := copySlot(ts)
	return &out, nil
}

func (r *slotRepo) DeleteByFolder(_ context.Context, folderID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k := range r.slots {
		if k.folderID == folderID {
			delete(r.slots, k)
			n++
		}
	}
	return n, nil
}

func (r *slotRepo) DailyAggregate(_ context.Context, folderID string, date time.Time) (timeslotRepo.Aggregate, error) {
	var agg timeslotRepo.Aggregate
	for _, ts := range r.filter(func(ts *models.TimeSlot) bool {
		return ts.FolderID == folderID && ts.Date.Equal(date)
	}) {
		agg.TotalSlots++
		agg.TotalBookings += ts.CurrentBookings
		if ts.IsAvailable {
			agg.AvailableSlots++
		}
	}
	return agg, nil
}

func (r *slotRepo) ListWithBookingsBefore(_ context.Context, cutoff time.Time) ([]models.TimeSlot, error) {
	return r.filter(func(ts *models.TimeSlot) bool {
		for _, b := range ts.Bookings {
			if b.BookedAt.Before(cutoff) {
				return true
			}
		}
		return false
	}), nil
}

func (r *slotRepo) EnsureIndexes(context.Context) error { return nil }

// ---- orders ----

type ordersRepo Store

func (r *ordersRepo) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	r.orders[o.ID] = *o
	return nil
}

func (r *ordersRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &o, nil
}

func (r *ordersRepo) find(match func(models.Order) bool) []models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Order{}
	for _, o := range r.orders {
		if match(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *ordersRepo) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return r.find(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (r *ordersRepo) List(_ context.Context, status string) ([]models.Order, error) {
	return r.find(func(o models.Order) bool { return status == "" || o.OrderStatus == status }), nil
}

func (r *ordersRepo) SetBooking(_ context.Context, orderID string, details models.BookingDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.SetBookingErr; err != nil {
		r.SetBookingErr = nil
		return err
	}
	o, ok := r.orders[orderID]
	if !ok || o.OrderStatus != models.OrderPending || o.BookingDetails != nil {
		return orderRepo.ErrStampConflict
	}
	d := details
	o.BookingDetails = &d
	o.OrderStatus = models.OrderScheduled
	o.UpdatedAt = time.Now().UTC()
	r.orders[orderID] = o
	return nil
}

func (r *ordersRepo) ClearBooking(_ context.Context, orderID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return database.ErrNotFound
	}
	o.BookingDetails = nil
	o.OrderStatus = status
	o.UpdatedAt = time.Now().UTC()
	r.orders[orderID] = o
	return nil
}

func (r *ordersRepo) ClearBookingIf(_ context.Context, orderID string, expected models.BookingDetails, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.OrderStatus != models.OrderScheduled || !sameStamp(o.BookingDetails, expected) {
		return orderRepo.ErrStampChanged
	}
	o.BookingDetails = nil
	o.OrderStatus = status
	o.UpdatedAt = time.Now().UTC()
	r.orders[orderID] = o
	return nil
}

func sameStamp(got *models.BookingDetails, want models.BookingDetails) bool {
	return got != nil && got.FolderID == want.FolderID && got.Hour == want.Hour &&
		got.Date.Equal(want.Date) && got.BookedAt.Equal(want.BookedAt)
}

func (r *ordersRepo) UpdateStatus(_ context.Context, orderID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return database.ErrNotFound
	}
	o.OrderStatus = status
	o.UpdatedAt = time.Now().UTC()
	r.orders[orderID] = o
	return nil
}

func (r *ordersRepo) ListStampedBefore(_ context.Context, cutoff time.Time) ([]models.Order, error) {
	return r.find(func(o models.Order) bool {
		return o.BookingDetails != nil && o.BookingDetails.BookedAt.Before(cutoff)
	}), nil
}

func (r *ordersRepo) EnsureIndexes(context.Context) error { return nil }

// ---- users ----

type usersRepo Store

func (r *usersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &u, nil
}

func (r *usersRepo) GetByIDWithProjection(ctx context.Context, id string, _ bson.M) (*models.User, error) {
	return r.GetByID(ctx, id)
}
