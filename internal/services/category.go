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
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache cache.Cache
}

func NewCategoryService(repo repository.CategoryRepository, cache cache.Cache) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {

	category := &models.Category{
		Name:        req.Name,
		Slug:        baseSlug(req.Name, "category"),
		Description: req.Description,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if stdErrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("Category already exists").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create category").WithError(err)
	}

	s.invalidateList(ctx)

	return category, nil
}

func (s *categoryService) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.CategoryListKey); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to invalidate category list", "error", err)
	}
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Category not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch category").WithError(err)
	}

	return category, nil
}

// ListCategories serves the list from cache, filling it on a miss.
func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {

	logger := middleware.LoggerFromContext(ctx)

	var categories []*models.Category

	found, err := s.cache.Get(ctx, cache.CategoryListKey, &categories)
	if err != nil {
		logger.Warn("Category cache read failed", "error", err)
	}
	if found {
		return categories, nil
	}

	categories, err = s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	if err := s.cache.Set(ctx, cache.CategoryListKey, categories, 0); err != nil {
		logger.Warn("Category cache write failed", "error", err)
	}

	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Category not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to update category").WithError(err)
	}

	s.invalidateList(ctx)

	return category, nil
}

// DeleteCategory drops the category. Products in it become uncategorised.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Category not found").WithError(err)
		}
		return errors.DatabaseError("Failed to delete category").WithError(err)
	}

	s.invalidateList(ctx)

	return nil
}
