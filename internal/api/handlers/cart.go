package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	service "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/session"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService    service.CartService
	productService service.ProductService
	staging        *session.StagingCart
	validator      *validator.Validate
}

func NewCartHandler(cartService service.CartService, productService service.ProductService, staging *session.StagingCart) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		productService: productService,
		staging:        staging,
		validator:      validator.New(),
	}
}

// mergeStaged imports the session's staged lines into the user's cart and
// forgets them once the merge has committed.
func mergeStaged(ctx context.Context, cartService service.CartService, staging *session.StagingCart, userID uuid.UUID) error {

	staged := staging.Staged(ctx)
	if len(staged) == 0 {
		return nil
	}

	if err := cartService.MergeStaged(ctx, userID, staged); err != nil {
		return err
	}

	staging.Clear(ctx)

	middleware.LoggerFromContext(ctx).Info("Staged cart merged", slog.Int("lines", len(staged)))

	return nil
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		if err := mergeStaged(r.Context(), h.cartService, h.staging, claims.UserID); err != nil {
			logger.Error("Failed to merge staged cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add item to cart",
				slog.String("productId", req.ProductID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := h.cartService.UpdateQuantity(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to update cart item",
				slog.String("productId", req.ProductID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		// a line staged before login must not come back on the next merge
		h.staging.Remove(r.Context(), productID)

		cart, err := h.cartService.RemoveItem(r.Context(), claims.UserID, productID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ClearCart empties the cart and any lines still staged in the session.
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		h.staging.Clear(r.Context())

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			logger.Error("Failed to clear cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared")
		response.NoContent(w)
	}
}

// StageItem adds to the anonymous session cart. Only existence is checked;
// quantities are capped against stock when the cart is merged.
func (h *CartHandler) StageItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if _, err := h.productService.GetProduct(r.Context(), req.ProductID); err != nil {
			logger.Warn("Cannot stage unknown product", slog.String("productId", req.ProductID.String()))
			response.Error(w, err)
			return
		}

		staged := h.staging.Add(r.Context(), req.ProductID, req.Quantity)

		response.Success(w, http.StatusOK, models.StagedCartResponse{Items: staged, Count: len(staged)})
	}
}

func (h *CartHandler) GetStaged() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		staged := h.staging.Staged(r.Context())

		response.Success(w, http.StatusOK, models.StagedCartResponse{Items: staged, Count: len(staged)})
	}
}
