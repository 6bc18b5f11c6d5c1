package service

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type ReviewService interface {
	CreateReview(ctx context.Context, buyerID, productID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context, productID uuid.UUID, page, size int) ([]*models.Review, int, error)
	UpdateReview(ctx context.Context, authorID, id uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, actor *models.Claims, id uuid.UUID) error
}

type reviewService struct {
	repo        repository.ReviewRepository
	productRepo repository.ProductRepository
	policy      *bluemonday.Policy
}

func NewReviewService(repo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{repo: repo, productRepo: productRepo, policy: bluemonday.StrictPolicy()}
}

// CreateReview stores one review per (product, buyer). The verified flag is
// decided here, once, from the buyer's order history.
func (s *reviewService) CreateReview(ctx context.Context, buyerID, productID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, error) {

	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	exists, err := s.repo.ReviewExists(ctx, productID, buyerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to check existing review").WithError(err)
	}
	if exists {
		return nil, errors.DuplicateEntryError("You have already reviewed this product")
	}

	verified, err := s.repo.HasPurchased(ctx, buyerID, productID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to check purchase history").WithError(err)
	}

	review := &models.Review{
		ProductID:  productID,
		BuyerID:    buyerID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(s.policy.Sanitize(req.Comment)),
		IsVerified: verified,
	}

	if err := s.repo.CreateReview(ctx, review); err != nil {
		// the unique (product, buyer) constraint catches a concurrent duplicate
		if stdErrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.DuplicateEntryError("You have already reviewed this product").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create review").WithError(err)
	}

	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, productID uuid.UUID, page, size int) ([]*models.Review, int, error) {

	reviews, total, err := s.repo.ListReviews(ctx, productID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch reviews").WithError(err)
	}

	return reviews, total, nil
}

func (s *reviewService) fetch(ctx context.Context, id uuid.UUID) (*models.Review, error) {

	review, err := s.repo.GetReviewByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Review not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch review").WithError(err)
	}

	return review, nil
}

// UpdateReview lets the author change rating and comment. The verified flag
// keeps the value decided at creation.
func (s *reviewService) UpdateReview(ctx context.Context, authorID, id uuid.UUID, req *models.UpdateReviewRequest) (*models.Review, error) {

	review, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if review.BuyerID != authorID {
		return nil, errors.ForbiddenError("You can only edit your own review")
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = strings.TrimSpace(s.policy.Sanitize(*req.Comment))
	}

	if err := s.repo.UpdateReview(ctx, review); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Review not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to update review").WithError(err)
	}

	return review, nil
}

// DeleteReview is open to the author and to catalog moderators.
func (s *reviewService) DeleteReview(ctx context.Context, actor *models.Claims, id uuid.UUID) error {

	review, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}

	if review.BuyerID != actor.UserID && !actor.Role.Can(models.CapManageCatalog) {
		return errors.ForbiddenError("You can only delete your own review")
	}

	if err := s.repo.DeleteReview(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Review not found").WithError(err)
		}
		return errors.DatabaseError("Failed to delete review").WithError(err)
	}

	return nil
}
