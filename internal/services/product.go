package service

import (
	"context"
	stdErrors "errors"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/cache"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	CreateProduct(ctx context.Context, actorID, storeID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, actorID, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, actorID, id uuid.UUID) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
}

type productService struct {
	repo         repository.ProductRepository
	storeRepo    repository.StoreRepository
	categoryRepo repository.CategoryRepository
	cache        cache.Cache
}

func NewProductService(
	repo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	categoryRepo repository.CategoryRepository,
	cache cache.Cache,
) ProductService {
	return &productService{repo: repo, storeRepo: storeRepo, categoryRepo: categoryRepo, cache: cache}
}

func productCacheKey(id uuid.UUID) string {
	return cache.Key(cache.ProductKeyPrefix, id.String())
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return errors.InvalidFieldError("price", "must be greater than 0")
	}
	if price.Exponent() < -2 && !price.Equal(price.Round(2)) {
		return errors.InvalidFieldError("price", "must have at most 2 decimal places")
	}
	return nil
}

// checkStoreOwner fails unless the store exists and belongs to actorID.
func (s *productService) checkStoreOwner(ctx context.Context, actorID, storeID uuid.UUID) error {

	store, err := s.storeRepo.GetStoreByID(ctx, storeID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Store not found").WithError(err)
		}
		return errors.DatabaseError("Failed to fetch store").WithError(err)
	}

	if store.OwnerID != actorID {
		return errors.ForbiddenError("You do not own this store")
	}

	return nil
}

func (s *productService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {

	if categoryID == nil {
		return nil
	}

	if _, err := s.categoryRepo.GetCategoryByID(ctx, *categoryID); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Category not found").WithError(err)
		}
		return errors.DatabaseError("Failed to fetch category").WithError(err)
	}

	return nil
}

func (s *productService) CreateProduct(ctx context.Context, actorID, storeID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {

	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	if err := s.checkStoreOwner(ctx, actorID, storeID); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		StoreID:     storeID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

// GetProduct reads through the product cache. Cache failures only cost a DB hit.
func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	logger := middleware.LoggerFromContext(ctx)
	key := productCacheKey(id)

	var cached models.Product

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Product cache read failed", "key", key, "error", err)
	}
	if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		logger.Warn("Product cache write failed", "key", key, "error", err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actorID, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.checkStoreOwner(ctx, actorID, product.StoreID); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actorID, id uuid.UUID) error {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Product not found").WithError(err)
		}
		return errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.checkStoreOwner(ctx, actorID, product.StoreID); err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Product not found").WithError(err)
		}
		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

func (s *productService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	invalidateProducts(ctx, s.cache, ids...)
}

// invalidateProducts drops cached product entries. Stale entries expire on their own, so failures are only logged.
func invalidateProducts(ctx context.Context, c cache.Cache, ids ...uuid.UUID) {

	if len(ids) == 0 {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productCacheKey(id))
	}

	if err := c.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to invalidate product cache", "keys", keys, "error", err)
	}
}
