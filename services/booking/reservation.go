package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthcart/database"
	orderRepo "healthcart/database/repository/order"
	timeslotRepo "healthcart/database/repository/timeslot"
	"healthcart/models"
	"healthcart/utils"

	"go.uber.org/zap"
)

// target is a validated booking request resolved to its folder.
type target struct {
	folder *models.CollectorFolder
	date   time.Time
	hour   int
}

func (s *DefaultBookingService) validateTarget(ctx context.Context, req models.BookSlotRequest) (*target, error) {
	if req.OrderID == "" || req.Pincode == "" || req.Hour == nil {
		return nil, utils.ValidationError("orderId, pincode, date and hour are required")
	}
	date, err := s.parseBookableDate(req.Date)
	if err != nil {
		return nil, err
	}
	hour := *req.Hour
	if hour < 0 || hour > 23 {
		return nil, utils.ValidationError("Hour must be between 0 and 23")
	}
	if date.Equal(s.today()) && hour <= s.Now().In(s.Loc).Hour() {
		return nil, utils.ValidationError("Cannot book a slot that has already started")
	}

	folder, err := s.Folders.Lookup(ctx, req.Pincode)
	if err != nil {
		return nil, err
	}
	if !folder.WorkingHours.Covers(hour) {
		return nil, utils.ValidationError("Hour %d is outside working hours (%d-%d)",
			hour, folder.WorkingHours.Start, folder.WorkingHours.End)
	}
	return &target{folder: folder, date: date, hour: hour}, nil
}

// slotFull builds the capacity error with the next open hour after t.hour attached.
func (s *DefaultBookingService) slotFull(ctx context.Context, t *target) error {
	next, err := s.nextAvailable(ctx, t.folder, t.date, t.hour)
	if err != nil {
		s.Logger.Warn("next-available lookup failed after capacity miss",
			zap.String("folderID", t.folder.ID), zap.Error(err))
		next = nil
	}
	return utils.CapacityError("Selected time slot is full", next)
}

func (s *DefaultBookingService) BookSlot(ctx context.Context, caller models.Caller, req models.BookSlotRequest) (*models.Order, error) {
	// Step 1: validate and resolve the folder
	t, err := s.validateTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	// Step 2: materialize the slot and fail fast when it is full
	slot, err := s.Slots.GetOrCreate(ctx, t.folder.ID, t.date, t.hour, t.folder.MaxOrdersPerHour)
	if err != nil {
		return nil, utils.RepoError("Failed to load timeslot", err)
	}
	if !slot.HasBooking(req.OrderID) && slot.RemainingSlots() <= 0 {
		return nil, s.slotFull(ctx, t)
	}

	// Step 3: load and authorize the order
	order, err := s.Orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, orderLookupError(err)
	}
	if !caller.CanAccess(order.UserID) {
		return nil, errNotOwner
	}
	if order.BookingDetails != nil {
		if order.BookingDetails.Matches(*slot) {
			return order, nil
		}
		return nil, utils.StateError("Order already has a booked slot; cancel it first")
	}
	if order.OrderStatus != models.OrderPending {
		return nil, utils.StateError(fmt.Sprintf("Order in status %q cannot be scheduled", order.OrderStatus))
	}

	// Step 4: reserve and stamp as one unit of work
	now := s.Now().UTC()
	entry := s.patientEntry(ctx, order, now)
	details := models.BookingDetails{
		FolderID:   t.folder.ID,
		FolderName: t.folder.Name,
		Date:       t.date,
		Hour:       t.hour,
		TimeSlot:   models.HourRange(t.hour),
		BookedAt:   now,
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.Slots.Reserve(txCtx, t.folder.ID, t.date, t.hour, entry); err != nil {
			return err
		}
		if err := s.Orders.SetBooking(txCtx, order.ID, details); err != nil {
			if !s.Tx.Atomic() {
				s.compensate(ctx, t, order.ID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return s.reservationError(ctx, t, order, err)
	}

	order.BookingDetails = &details
	order.OrderStatus = models.OrderScheduled
	order.UpdatedAt = now
	s.Logger.Info("slot booked",
		zap.String("orderID", order.ID),
		zap.String("folderID", t.folder.ID),
		zap.String("date", utils.FormatDate(t.date)),
		zap.Int("hour", t.hour))
	return order, nil
}

// patientEntry snapshots the patient's contact for the ledger. A missing account still
// books, with blank contact fields.
func (s *DefaultBookingService) patientEntry(ctx context.Context, order *models.Order, now time.Time) models.BookingEntry {
	entry := models.BookingEntry{OrderID: order.ID, BookedAt: now}
	if s.Users == nil {
		return entry
	}
	user, err := s.Users.GetByID(ctx, order.UserID)
	if err != nil {
		s.Logger.Warn("patient lookup failed, booking without contact details",
			zap.String("orderID", order.ID), zap.String("userID", order.UserID), zap.Error(err))
		return entry
	}
	entry.PatientName = user.Name
	entry.PatientPhone = user.Phone
	return entry
}

// compensate undoes a reservation whose stamp could not be written outside a transaction.
func (s *DefaultBookingService) compensate(ctx context.Context, t *target, orderID string) {
	if _, err := s.Slots.Release(ctx, t.folder.ID, t.date, t.hour, orderID); err != nil {
		s.Logger.Error("compensating release failed; reconciler will repair",
			zap.String("orderID", orderID),
			zap.String("folderID", t.folder.ID),
			zap.Int("hour", t.hour),
			zap.Error(err))
	}
}

// reservationError maps a failed unit of work. A concurrent retry of the same request that
// already won resolves to the stamped order.
func (s *DefaultBookingService) reservationError(ctx context.Context, t *target, order *models.Order, err error) (*models.Order, error) {
	switch {
	case errors.Is(err, timeslotRepo.ErrSlotUnavailable):
		current, ferr := s.Orders.GetByID(ctx, order.ID)
		if ferr == nil && current.BookingDetails != nil && current.BookingDetails.FolderID == t.folder.ID &&
			current.BookingDetails.Hour == t.hour && current.BookingDetails.Date.Equal(t.date) {
			return current, nil
		}
		return nil, s.slotFull(ctx, t)
	case errors.Is(err, orderRepo.ErrStampConflict):
		return nil, utils.StateError("Order changed while booking; it is no longer pending")
	case errors.Is(err, database.ErrNotFound):
		return nil, errOrderNotFound
	default:
		return nil, utils.RepoError("Failed to book slot", err)
	}
}
