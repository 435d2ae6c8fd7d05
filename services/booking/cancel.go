package booking

import (
	"context"
	"errors"

	"healthcart/database"
	timeslotRepo "healthcart/database/repository/timeslot"
	"healthcart/models"
	"healthcart/utils"

	"go.uber.org/zap"
)

func (s *DefaultBookingService) CancelBooking(ctx context.Context, caller models.Caller, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, utils.ValidationError("Order ID is required")
	}
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, orderLookupError(err)
	}
	if !caller.CanAccess(order.UserID) {
		return nil, errNotOwner
	}
	if order.BookingDetails == nil {
		return nil, errNoBooking
	}
	if order.OrderStatus != models.OrderScheduled {
		return nil, errNotScheduled
	}

	if err := s.ReleaseForOrder(ctx, order, models.OrderPending); err != nil {
		return nil, err
	}
	s.Logger.Info("booking cancelled", zap.String("orderID", order.ID))
	return order, nil
}

// ReleaseForOrder removes the order's ledger entry and clears its stamp in one unit of
// work. A slot that no longer holds the entry is logged and the stamp is still cleared.
// On success order reflects the new state.
func (s *DefaultBookingService) ReleaseForOrder(ctx context.Context, order *models.Order, status string) error {
	stamp := order.BookingDetails
	if stamp == nil {
		return errNoBooking
	}

	err := s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		_, err := s.Slots.Release(txCtx, stamp.FolderID, stamp.Date, stamp.Hour, order.ID)
		switch {
		case err == nil:
		case errors.Is(err, timeslotRepo.ErrBookingNotFound), errors.Is(err, database.ErrNotFound):
			s.Logger.Warn("no ledger entry to release",
				zap.String("orderID", order.ID),
				zap.String("folderID", stamp.FolderID),
				zap.Int("hour", stamp.Hour))
		default:
			return err
		}
		return s.Orders.ClearBooking(txCtx, order.ID, status)
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errOrderNotFound
		}
		return utils.RepoError("Failed to release booking", err)
	}

	order.BookingDetails = nil
	order.OrderStatus = status
	order.UpdatedAt = s.Now().UTC()
	return nil
}
