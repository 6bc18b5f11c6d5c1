package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	service "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/session"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
	cartService     service.CartService
	staging         *session.StagingCart
	validator       *validator.Validate
}

func NewOrderHandler(
	checkoutService service.CheckoutService,
	orderService service.OrderService,
	cartService service.CartService,
	staging *session.StagingCart,
) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		cartService:     cartService,
		staging:         staging,
		validator:       validator.New(),
	}
}

// Checkout places the order and points the client at it with a Location header.
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		logger = logger.With(slog.String("userID", claims.UserID.String()))

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		if err := mergeStaged(r.Context(), h.cartService, h.staging, claims.UserID); err != nil {
			logger.Error("Failed to merge staged cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		order, err := h.checkoutService.Checkout(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Checkout failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		h.staging.Clear(r.Context())

		logger.Info("Checkout completed", slog.String("orderId", order.ID.String()), slog.String("orderNumber", order.OrderNumber))
		response.Created(w, "/api/v1/orders/"+order.ID.String(), order)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), claims, id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		page, pageSize := utils.ParsePagination(r)

		orders, total, err := h.orderService.ListOrders(r.Context(), claims.UserID, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Paginated(w, orders, total, page, pageSize)
	}
}

func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Warn("Failed to update order status", slog.String("orderId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.String("orderId", id.String()), slog.String("status", string(order.Status)))
		response.Success(w, http.StatusOK, order)
	}
}

// VendorStats reports sales across the caller's stores.
func (h *OrderHandler) VendorStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		stats, err := h.orderService.VendorStats(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to build vendor stats", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, stats)
	}
}
