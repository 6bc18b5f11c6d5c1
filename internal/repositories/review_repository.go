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

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	ReviewExists(ctx context.Context, productID, buyerID uuid.UUID) (bool, error)
	HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)
	ListReviews(ctx context.Context, productID uuid.UUID, page, size int) ([]*models.Review, int, error)
	GetReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepo(db *sql.DB) ReviewRepository {
	return &reviewRepository{DB: db}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review *models.Review) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO reviews (product_id, buyer_id, rating, comment, is_verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(dbCtx, query, review.ProductID, review.BuyerID, review.Rating, review.Comment, review.IsVerified).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert review: %w", err)
	}

	return nil
}

func (r *reviewRepository) ReviewExists(ctx context.Context, productID, buyerID uuid.UUID) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE product_id = $1 AND buyer_id = $2)`

	if err := r.DB.QueryRowContext(dbCtx, query, productID, buyerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking existing review: %w", err)
	}

	return exists, nil
}

// HasPurchased reports whether any order of the buyer contains the product.
func (r *reviewRepository) HasPurchased(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var purchased bool

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.buyer_id = $1 AND oi.product_id = $2
		)`

	if err := r.DB.QueryRowContext(dbCtx, query, buyerID, productID).Scan(&purchased); err != nil {
		return false, fmt.Errorf("checking purchase history: %w", err)
	}

	return purchased, nil
}

func (r *reviewRepository) ListReviews(ctx context.Context, productID uuid.UUID, page, size int) ([]*models.Review, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM reviews WHERE product_id = $1`
	if err := r.DB.QueryRowContext(dbCtx, countQuery, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting reviews: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT id, product_id, buyer_id, rating, comment, is_verified, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, productID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}

	for rows.Next() {
		review := &models.Review{}

		if err := rows.Scan(&review.ID, &review.ProductID, &review.BuyerID, &review.Rating, &review.Comment, &review.IsVerified, &review.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning review: %w", err)
		}

		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *reviewRepository) GetReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	review := &models.Review{}

	query := `
		SELECT id, product_id, buyer_id, rating, comment, is_verified, created_at
		FROM reviews
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&review.ID, &review.ProductID, &review.BuyerID, &review.Rating, &review.Comment, &review.IsVerified, &review.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying review: %w", err)
	}

	return review, nil
}

// UpdateReview writes rating and comment only. is_verified is fixed at creation.
func (r *reviewRepository) UpdateReview(ctx context.Context, review *models.Review) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE reviews SET rating = $1, comment = $2 WHERE id = $3`

	result, err := r.DB.ExecContext(dbCtx, query, review.Rating, review.Comment, review.ID)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *reviewRepository) DeleteReview(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
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
