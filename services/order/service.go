package order

import (
	"context"
	"errors"
	"math"
	"time"

	"healthcart/database"
	orderRepo "healthcart/database/repository/order"
	"healthcart/models"
	"healthcart/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	Create(ctx context.Context, caller models.Caller, req models.CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, caller models.Caller, id string) (*models.Order, error)
	ListMine(ctx context.Context, caller models.Caller) ([]models.Order, error)
	ListAll(ctx context.Context, status string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Order, error)
}

// BookingReleaser gives back the slot held by an order.
type BookingReleaser interface {
	ReleaseForOrder(ctx context.Context, order *models.Order, status string) error
}

type DefaultOrderService struct {
	Repo     orderRepo.OrderRepository
	Bookings BookingReleaser
	Now      func() time.Time
}

func NewOrderService(repo orderRepo.OrderRepository, bookings BookingReleaser) *DefaultOrderService {
	return &DefaultOrderService{Repo: repo, Bookings: bookings, Now: time.Now}
}

func (s *DefaultOrderService) Create(ctx context.Context, caller models.Caller, req models.CreateOrderRequest) (*models.Order, error) {
	if caller.UserID == "" {
		return nil, utils.ValidationError("User ID is required")
	}
	if len(req.Items) == 0 {
		return nil, utils.ValidationError("At least one test is required")
	}

	var total float64
	for _, item := range req.Items {
		if item.Price < 0 {
			return nil, utils.ValidationError("Price for %s cannot be negative", item.TestID)
		}
		total += item.Price
	}

	now := s.Now().UTC()
	order := &models.Order{
		ID:          uuid.New().String(),
		UserID:      caller.UserID,
		Items:       req.Items,
		TotalAmount: math.Round(total*100) / 100,
		OrderStatus: models.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, order); err != nil {
		return nil, utils.RepoError("Failed to create order", err)
	}
	return order, nil
}

func (s *DefaultOrderService) load(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("Order not found")
		}
		return nil, utils.RepoError("Failed to fetch order", err)
	}
	return order, nil
}

func (s *DefaultOrderService) Get(ctx context.Context, caller models.Caller, id string) (*models.Order, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(order.UserID) {
		return nil, utils.ForbiddenError("Not authorized to view this order")
	}
	return order, nil
}

func (s *DefaultOrderService) ListMine(ctx context.Context, caller models.Caller) ([]models.Order, error) {
	orders, err := s.Repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, utils.RepoError("Failed to list orders", err)
	}
	return orders, nil
}

func (s *DefaultOrderService) ListAll(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" && !models.ValidOrderStatus(status) {
		return nil, utils.ValidationError("Unknown order status %q", status)
	}
	orders, err := s.Repo.List(ctx, status)
	if err != nil {
		return nil, utils.RepoError("Failed to list orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order through the lab workflow. Scheduling only happens through a
// booking, and moving a booked order back to pending or cancelled releases its slot.
func (s *DefaultOrderService) UpdateStatus(ctx context.Context, id, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, utils.ValidationError("Unknown order status %q", status)
	}
	if status == models.OrderScheduled {
		return nil, utils.StateError("Orders are scheduled by booking a slot")
	}

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus == status {
		return order, nil
	}

	releasing := status == models.OrderPending || status == models.OrderCancelled
	if releasing && order.BookingDetails != nil {
		if err := s.Bookings.ReleaseForOrder(ctx, order, status); err != nil {
			return nil, err
		}
		utils.GetLogger().Info("order slot released on status change",
			zap.String("orderID", order.ID), zap.String("status", status))
		return order, nil
	}

	if err := s.Repo.UpdateStatus(ctx, order.ID, status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NotFoundError("Order not found")
		}
		return nil, utils.RepoError("Failed to update order status", err)
	}
	order.OrderStatus = status
	order.UpdatedAt = s.Now().UTC()
	return order, nil
}
