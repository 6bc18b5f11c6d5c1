package service

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	GetOrder(ctx context.Context, viewer *models.Claims, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
	VendorStats(ctx context.Context, ownerID uuid.UUID) (*models.VendorStats, error)
}

// recentVendorSales is how many order lines the vendor dashboard lists.
const recentVendorSales = 5

type orderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) OrderService {
	return &orderService{repo: repo}
}

func (s *orderService) fetch(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

// GetOrder returns the order to its buyer, or to anyone who manages orders.
// Other callers get NotFound so order ids cannot be guessed.
func (s *orderService) GetOrder(ctx context.Context, viewer *models.Claims, id uuid.UUID) (*models.Order, error) {

	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.BuyerID != viewer.UserID && !viewer.Role.Can(models.CapManageOrders) {
		return nil, errors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, buyerID uuid.UUID, page, size int) ([]models.Order, int, error) {

	orders, total, err := s.repo.ListOrdersByBuyer(ctx, buyerID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	order, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, errors.ValidationError(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateOrderStatus(ctx, id, order.Status, status); err != nil {
		if stdErrors.Is(err, repository.ErrConflict) {
			return nil, errors.ConflictError("Order status changed, reload and retry").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to update order status").WithError(err)
	}

	order.Status = status

	return order, nil
}

func (s *orderService) VendorStats(ctx context.Context, ownerID uuid.UUID) (*models.VendorStats, error) {

	stats, err := s.repo.VendorSalesSummary(ctx, ownerID, recentVendorSales)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch sales summary").WithError(err)
	}

	return stats, nil
}
