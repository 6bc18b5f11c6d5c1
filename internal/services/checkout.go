package service

import (
	"context"
	stdErrors "errors"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/cache"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/metrics"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingCalculator prices delivery for a cart about to be ordered.
type ShippingCalculator interface {
	Quote(subtotal decimal.Decimal, lines []models.CartLine) decimal.Decimal
}

// FlatRateShipping charges the same amount for every order.
type FlatRateShipping struct {
	Amount decimal.Decimal
}

func (f FlatRateShipping) Quote(decimal.Decimal, []models.CartLine) decimal.Decimal {
	return f.Amount
}

type CheckoutService interface {
	Checkout(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error)
}

type checkoutService struct {
	transactor  repository.Transactor
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	shipping    ShippingCalculator
	cache       cache.Cache
	notifier    Notifier
}

func NewCheckoutService(
	transactor repository.Transactor,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	shipping ShippingCalculator,
	cache cache.Cache,
	notifier Notifier,
) CheckoutService {
	return &checkoutService{
		transactor:  transactor,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		shipping:    shipping,
		cache:       cache,
		notifier:    notifier,
	}
}

// Checkout turns the buyer's cart into an order in one transaction. Product
// rows are locked before stock is checked, and every decrement is conditional,
// so either the whole order is written or nothing is.
func (s *checkoutService) Checkout(ctx context.Context, buyerID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	var order *models.Order

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {

		cart, err := s.cartRepo.GetOrCreateCart(ctx, buyerID)
		if err != nil {
			return err
		}

		lines, err := s.cartRepo.LockLines(ctx, cart.ID)
		if err != nil {
			return err
		}

		if len(lines) == 0 {
			return errors.EmptyCartError()
		}

		for _, line := range lines {
			if line.Quantity > line.Stock {
				return errors.InsufficientStockError(line.ProductName)
			}
		}

		order = s.buildOrder(buyerID, req, lines)

		if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.productRepo.ReduceStock(ctx, line.ProductID, line.Quantity); err != nil {
				var stockErr *repository.InsufficientStockError
				if stdErrors.As(err, &stockErr) {
					return errors.InsufficientStockError(stockErr.ProductName).WithError(err)
				}
				return err
			}
		}

		return s.cartRepo.ClearCart(ctx, cart.ID)
	})
	if err != nil {
		appErr, ok := errors.IsAppError(err)
		if !ok {
			metrics.RecordCheckout(metrics.CheckoutFailed)
			logger.Error("Checkout failed", "buyer_id", buyerID, "error", err)
			return nil, errors.DatabaseError("Failed to place order").WithError(err)
		}

		switch appErr.Code {
		case errors.ErrCodeEmptyCart:
			metrics.RecordCheckout(metrics.CheckoutEmptyCart)
		case errors.ErrCodeInsufficientStock:
			metrics.RecordCheckout(metrics.CheckoutInsufficientStock)
		default:
			metrics.RecordCheckout(metrics.CheckoutFailed)
		}

		return nil, appErr
	}

	metrics.RecordCheckout(metrics.CheckoutSucceeded)
	logger.Info("Order placed", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total.StringFixed(2))

	productIDs := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, *item.ProductID)
	}
	invalidateProducts(ctx, s.cache, productIDs...)

	if !s.notifier.Enqueue(ctx, BuildOrderConfirmation(order)) {
		logger.Warn("Order confirmation not queued", "order_id", order.ID)
	}

	return order, nil
}

func (s *checkoutService) buildOrder(buyerID uuid.UUID, req *models.CheckoutRequest, lines []models.CartLine) *models.Order {

	orderID := uuid.New()
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		productID := line.ProductID

		item := models.OrderItem{
			ID:          uuid.New(),
			OrderID:     orderID,
			ProductID:   &productID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}

		subtotal = subtotal.Add(item.Subtotal())
		items = append(items, item)
	}

	shipping := s.shipping.Quote(subtotal, lines)

	billing := req.BillingAddress
	if billing == "" {
		billing = req.ShippingAddress
	}

	return &models.Order{
		ID:              orderID,
		OrderNumber:     models.OrderNumberFor(orderID),
		BuyerID:         buyerID,
		Status:          models.OrderStatusPending,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		Total:           subtotal.Add(shipping),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		City:            req.City,
		Region:          req.Region,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		Items:           items,
	}
}
