package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils"
	"github.com/google/uuid"
)

type StoreRepository interface {
	CreateStore(ctx context.Context, store *models.Store) error
	GetStoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListStores(ctx context.Context, page, size int) ([]*models.Store, int, error)
	ListStoresByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Store, error)
	UpdateStore(ctx context.Context, store *models.Store) error
	DeleteStore(ctx context.Context, id uuid.UUID) error
}

type storeRepository struct {
	DB *sql.DB
}

func NewStoreRepo(db *sql.DB) StoreRepository {
	return &storeRepository{DB: db}
}

const storeColumns = `id, owner_id, name, slug, description, city, region, is_active, created_at, updated_at`

func scanStore(row interface{ Scan(dest ...any) error }) (*models.Store, error) {
	store := &models.Store{}

	err := row.Scan(&store.ID, &store.OwnerID, &store.Name, &store.Slug, &store.Description,
		&store.City, &store.Region, &store.IsActive, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return store, nil
}

func (r *storeRepository) CreateStore(ctx context.Context, store *models.Store) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO stores (owner_id, name, slug, description, city, region, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, store.OwnerID, store.Name, store.Slug, store.Description, store.City, store.Region, store.IsActive).
		Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert store: %w", err)
	}

	return nil
}

func (r *storeRepository) GetStoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`

	store, err := scanStore(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying store: %w", err)
	}

	return store, nil
}

func (r *storeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM stores WHERE slug = $1)`

	if err := r.DB.QueryRowContext(dbCtx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking store slug: %w", err)
	}

	return exists, nil
}

// ListStores returns active stores only.
func (r *storeRepository) ListStores(ctx context.Context, page, size int) ([]*models.Store, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM stores WHERE is_active = TRUE`
	if err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting stores: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + storeColumns + `
		FROM stores
		WHERE is_active = TRUE
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing stores: %w", err)
	}
	defer rows.Close()

	stores := []*models.Store{}

	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning store: %w", err)
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return stores, total, nil
}

func (r *storeRepository) ListStoresByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Store, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + storeColumns + `
		FROM stores
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing stores by owner: %w", err)
	}
	defer rows.Close()

	stores := []*models.Store{}

	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning store: %w", err)
		}
		stores = append(stores, store)
	}

	return stores, rows.Err()
}

func (r *storeRepository) UpdateStore(ctx context.Context, store *models.Store) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE stores
		SET name = $1, description = $2, city = $3, region = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, store.Name, store.Description, store.City, store.Region, store.IsActive, store.ID).
		Scan(&store.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update store: %w", err)
	}

	return nil
}

func (r *storeRepository) DeleteStore(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return ErrNotFound
	}

	return nil
}
