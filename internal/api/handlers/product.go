package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	service "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		storeID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), claims.UserID, storeID, &req)
		if err != nil {
			logger.Error("Failed to create product", slog.String("storeId", storeID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("productId", product.ID.String()))
		response.Created(w, "/api/v1/products/"+product.ID.String(), product)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
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

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), claims.UserID, id, &req)
		if err != nil {
			logger.Warn("Failed to update product", slog.String("productId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
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

		if err := h.productService.DeleteProduct(r.Context(), claims.UserID, id); err != nil {
			logger.Warn("Failed to delete product", slog.String("productId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.NoContent(w)
	}
}

// ListProducts serves the public catalog. Filters: store_id, category_id, in_stock.
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		storeID, err := utils.ParseOptionalUUID(r, "store_id")
		if err != nil {
			response.Error(w, err)
			return
		}

		h.list(w, r, storeID)
	}
}

// ListStoreProducts lists the products of the store named in the path.
func (h *ProductHandler) ListStoreProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		storeID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		h.list(w, r, &storeID)
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, storeID *uuid.UUID) {

	categoryID, err := utils.ParseOptionalUUID(r, "category_id")
	if err != nil {
		response.Error(w, err)
		return
	}

	inStock := false
	if raw := r.URL.Query().Get("in_stock"); raw != "" {
		inStock, err = strconv.ParseBool(raw)
		if err != nil {
			response.Error(w, errors.BadRequestError("Invalid in_stock value").WithError(err))
			return
		}
	}

	page, pageSize := utils.ParsePagination(r)

	products, total, err := h.productService.ListProducts(r.Context(), models.ProductFilter{
		StoreID:    storeID,
		CategoryID: categoryID,
		InStock:    inStock,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		middleware.LoggerFromContext(r.Context()).Error("Failed to list products", slog.String("error", err.Error()))
		response.Error(w, err)
		return
	}

	response.Paginated(w, products, total, page, pageSize)
}
