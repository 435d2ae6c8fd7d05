package booking

import (
	"context"
	"time"

	"healthcart/database"
	orderRepo "healthcart/database/repository/order"
	timeslotRepo "healthcart/database/repository/timeslot"
	userRepo "healthcart/database/repository/user"
	"healthcart/models"
	"healthcart/utils"

	"go.uber.org/zap"
)

// BookingService enumerates, reserves and releases home-collection slots.
type BookingService interface {
	AvailableSlots(ctx context.Context, pincode, date string) (*models.DaySlots, error)
	NextAvailable(ctx context.Context, pincode, date string, currentHour *int) (*models.NextAvailable, error)
	BookSlot(ctx context.Context, caller models.Caller, req models.BookSlotRequest) (*models.Order, error)
	CancelBooking(ctx context.Context, caller models.Caller, orderID string) (*models.Order, error)
	// ReleaseForOrder gives back the order's slot and clears its stamp, leaving it in status.
	ReleaseForOrder(ctx context.Context, order *models.Order, status string) error
	FolderSlots(ctx context.Context, folderID, date string) ([]models.TimeSlot, error)
}

// FolderResolver is the slice of the collector service the allocator depends on.
type FolderResolver interface {
	Lookup(ctx context.Context, pincode string) (*models.CollectorFolder, error)
	Get(ctx context.Context, id string) (*models.CollectorFolder, error)
}

// DefaultBookingService implements BookingService on top of the slot ledger.
type DefaultBookingService struct {
	Folders FolderResolver
	Slots   timeslotRepo.TimeSlotRepository
	Orders  orderRepo.OrderRepository
	Users   userRepo.UserRepository
	Tx      database.Transactor
	Now     func() time.Time
	Loc     *time.Location
	Logger  *zap.Logger
}

// NewBookingService wires the allocator with the configured timezone and global logger.
func NewBookingService(
	folders FolderResolver,
	slots timeslotRepo.TimeSlotRepository,
	orders orderRepo.OrderRepository,
	users userRepo.UserRepository,
	tx database.Transactor,
) *DefaultBookingService {
	return &DefaultBookingService{
		Folders: folders,
		Slots:   slots,
		Orders:  orders,
		Users:   users,
		Tx:      tx,
		Now:     time.Now,
		Loc:     utils.Location(),
		Logger:  utils.GetLogger(),
	}
}
