package service

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugAttempts = 5

type StoreService interface {
	CreateStore(ctx context.Context, ownerID uuid.UUID, req *models.CreateStoreRequest) (*models.Store, error)
	GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListStores(ctx context.Context, page, size int) ([]*models.Store, int, error)
	ListMyStores(ctx context.Context, ownerID uuid.UUID) ([]*models.Store, error)
	UpdateStore(ctx context.Context, actorID, id uuid.UUID, req *models.UpdateStoreRequest) (*models.Store, error)
	DeleteStore(ctx context.Context, actorID, id uuid.UUID) error
}

type storeService struct {
	repo repository.StoreRepository
}

func NewStoreService(repo repository.StoreRepository) StoreService {
	return &storeService{repo: repo}
}

// slugSuffix returns a short random suffix used when a slug is taken.
func slugSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

func baseSlug(name, fallback string) string {
	s := slug.Make(name)
	if s == "" {
		return fallback
	}
	return s
}

func (s *storeService) CreateStore(ctx context.Context, ownerID uuid.UUID, req *models.CreateStoreRequest) (*models.Store, error) {

	store := &models.Store{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Region:      req.Region,
		IsActive:    true,
	}

	base := baseSlug(req.Name, "store")
	candidate := base

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return nil, errors.DatabaseError("Failed to create store").WithError(err)
		}

		if !taken {
			store.Slug = candidate

			err = s.repo.CreateStore(ctx, store)
			if err == nil {
				return store, nil
			}

			// another request took the slug between the check and the insert
			if !stdErrors.Is(err, repository.ErrDuplicate) {
				return nil, errors.DatabaseError("Failed to create store").WithError(err)
			}
		}

		candidate = base + "-" + slugSuffix()
	}

	return nil, errors.DuplicateEntryError("Could not generate a unique store slug")
}

func (s *storeService) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {

	store, err := s.repo.GetStoreByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Store not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch store").WithError(err)
	}

	return store, nil
}

func (s *storeService) ListStores(ctx context.Context, page, size int) ([]*models.Store, int, error) {

	stores, total, err := s.repo.ListStores(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch stores").WithError(err)
	}

	return stores, total, nil
}

func (s *storeService) ListMyStores(ctx context.Context, ownerID uuid.UUID) ([]*models.Store, error) {

	stores, err := s.repo.ListStoresByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch stores").WithError(err)
	}

	return stores, nil
}

// ownedStore loads the store and fails with ForbiddenError unless actorID owns it.
func (s *storeService) ownedStore(ctx context.Context, actorID, id uuid.UUID) (*models.Store, error) {

	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if store.OwnerID != actorID {
		return nil, errors.ForbiddenError("You do not own this store")
	}

	return store, nil
}

func (s *storeService) UpdateStore(ctx context.Context, actorID, id uuid.UUID, req *models.UpdateStoreRequest) (*models.Store, error) {

	store, err := s.ownedStore(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Description != nil {
		store.Description = *req.Description
	}
	if req.City != nil {
		store.City = *req.City
	}
	if req.Region != nil {
		store.Region = *req.Region
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateStore(ctx, store); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Store not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to update store").WithError(err)
	}

	return store, nil
}

func (s *storeService) DeleteStore(ctx context.Context, actorID, id uuid.UUID) error {

	if _, err := s.ownedStore(ctx, actorID, id); err != nil {
		return err
	}

	if err := s.repo.DeleteStore(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Store not found").WithError(err)
		}
		return errors.DatabaseError("Failed to delete store").WithError(err)
	}

	return nil
}
