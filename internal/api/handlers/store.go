package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	service "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type StoreHandler struct {
	storeService service.StoreService
	validator    *validator.Validate
}

func NewStoreHandler(storeService service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService, validator: validator.New()}
}

func (h *StoreHandler) CreateStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		var req models.CreateStoreRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		store, err := h.storeService.CreateStore(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to create store", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Store created", slog.String("storeId", store.ID.String()), slog.String("slug", store.Slug))
		response.Created(w, "/api/v1/stores/"+store.ID.String(), store)
	}
}

func (h *StoreHandler) GetStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		store, err := h.storeService.GetStore(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store)
	}
}

func (h *StoreHandler) ListStores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, pageSize := utils.ParsePagination(r)

		stores, total, err := h.storeService.ListStores(r.Context(), page, pageSize)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list stores", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Paginated(w, stores, total, page, pageSize)
	}
}

func (h *StoreHandler) ListMyStores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		stores, err := h.storeService.ListMyStores(r.Context(), claims.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, stores)
	}
}

func (h *StoreHandler) UpdateStore() http.HandlerFunc {
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

		var req models.UpdateStoreRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		store, err := h.storeService.UpdateStore(r.Context(), claims.UserID, id, &req)
		if err != nil {
			logger.Warn("Failed to update store", slog.String("storeId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, store)
	}
}

func (h *StoreHandler) DeleteStore() http.HandlerFunc {
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

		if err := h.storeService.DeleteStore(r.Context(), claims.UserID, id); err != nil {
			logger.Warn("Failed to delete store", slog.String("storeId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Store deleted", slog.String("storeId", id.String()))
		response.NoContent(w)
	}
}
