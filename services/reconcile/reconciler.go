// Package reconcile repairs divergence between the slot ledger and order booking stamps
// left behind by crashes between the two writes of a booking.
package reconcile

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

// Report summarizes one reconciliation pass.
type Report struct {
	ReleasedEntries int      `json:"releasedEntries"`
	ClearedStamps   int      `json:"clearedStamps"`
	Errors          []string `json:"errors,omitempty"`
}

type Reconciler struct {
	Slots  timeslotRepo.TimeSlotRepository
	Orders orderRepo.OrderRepository
	// Grace skips records younger than this so in-flight bookings are left alone.
	Grace  time.Duration
	Now    func() time.Time
	Logger *zap.Logger
}

func NewReconciler(slots timeslotRepo.TimeSlotRepository, orders orderRepo.OrderRepository, grace time.Duration) *Reconciler {
	return &Reconciler{
		Slots:  slots,
		Orders: orders,
		Grace:  grace,
		Now:    time.Now,
		Logger: utils.GetLogger(),
	}
}

// Run releases ledger entries whose order does not carry a matching stamp, then resets
// scheduled orders whose slot holds no entry for them. Individual failures are collected and
// the pass continues.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var report Report
	cutoff := r.Now().UTC().Add(-r.Grace)

	slots, err := r.Slots.ListWithBookingsBefore(ctx, cutoff)
	if err != nil {
		return report, fmt.Errorf("listing booked slots: %w", err)
	}
	for _, slot := range slots {
		for _, entry := range slot.Bookings {
			if !entry.BookedAt.Before(cutoff) {
				continue
			}
			if err := r.checkEntry(ctx, slot, entry, &report); err != nil {
				report.Errors = append(report.Errors, err.Error())
			}
		}
	}

	orders, err := r.Orders.ListStampedBefore(ctx, cutoff)
	if err != nil {
		return report, fmt.Errorf("listing stamped orders: %w", err)
	}
	for i := range orders {
		if err := r.checkStamp(ctx, &orders[i], &report); err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	r.Logger.Info("reconciliation finished",
		zap.Int("releasedEntries", report.ReleasedEntries),
		zap.Int("clearedStamps", report.ClearedStamps),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

func (r *Reconciler) checkEntry(ctx context.Context, slot models.TimeSlot, entry models.BookingEntry, report *Report) error {
	order, err := r.Orders.GetByID(ctx, entry.OrderID)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return fmt.Errorf("order %s: %w", entry.OrderID, err)
	case order.BookingDetails.Matches(slot):
		return nil
	}

	_, err = r.Slots.Release(ctx, slot.FolderID, slot.Date, slot.Hour, entry.OrderID)
	if err != nil && !errors.Is(err, timeslotRepo.ErrBookingNotFound) {
		return fmt.Errorf("release %s from slot %s: %w", entry.OrderID, slot.ID, err)
	}
	report.ReleasedEntries++
	r.Logger.Warn("released orphan ledger entry",
		zap.String("orderID", entry.OrderID),
		zap.String("folderID", slot.FolderID),
		zap.String("date", utils.FormatDate(slot.Date)),
		zap.Int("hour", slot.Hour))
	return nil
}

func (r *Reconciler) checkStamp(ctx context.Context, order *models.Order, report *Report) error {
	stamp := order.BookingDetails
	if stamp == nil || order.OrderStatus != models.OrderScheduled {
		return nil
	}
	slot, err := r.Slots.Find(ctx, stamp.FolderID, stamp.Date, stamp.Hour)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return fmt.Errorf("slot for order %s: %w", order.ID, err)
	case slot.HasBooking(order.ID):
		return nil
	}

	err = r.Orders.ClearBookingIf(ctx, order.ID, *stamp, models.OrderPending)
	if errors.Is(err, orderRepo.ErrStampChanged) {
		r.Logger.Info("stamp changed since scan, skipping", zap.String("orderID", order.ID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("clear stamp on %s: %w", order.ID, err)
	}
	report.ClearedStamps++
	r.Logger.Warn("cleared stamp without ledger entry",
		zap.String("orderID", order.ID),
		zap.String("folderID", stamp.FolderID),
		zap.Int("hour", stamp.Hour))
	return nil
}
