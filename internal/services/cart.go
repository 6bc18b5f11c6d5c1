package service

import (
	"context"
	stdErrors "errors"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	repository "github.com/aaravmahajanofficial/multivendor-marketplace/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error)
	MergeStaged(ctx context.Context, userID uuid.UUID, staged models.StagedCart) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	transactor  repository.Transactor
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, transactor repository.Transactor) CartService {
	return &cartService{repo: repo, productRepo: productRepo, transactor: transactor}
}

func (s *cartService) loadCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	lines, err := s.repo.GetLines(ctx, cart.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart items").WithError(err)
	}

	cart.Lines = lines
	cart.Recalculate()

	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.loadCart(ctx, userID)
}

func (s *cartService) product(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

// currentQuantity returns the quantity already in the cart for productID, 0 when absent.
func (s *cartService) currentQuantity(ctx context.Context, cartID, productID uuid.UUID) (int, error) {

	line, err := s.repo.GetLine(ctx, cartID, productID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, errors.DatabaseError("Failed to fetch cart item").WithError(err)
	}

	return line.Quantity, nil
}

// AddItem adds to the existing line. It fails rather than capping when the
// combined quantity exceeds stock.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	product, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	existing, err := s.currentQuantity(ctx, cart.ID, product.ID)
	if err != nil {
		return nil, err
	}

	if existing+req.Quantity > product.Stock {
		return nil, errors.InsufficientStockError(product.Name)
	}

	if err := s.repo.SetLineQuantity(ctx, cart.ID, product.ID, existing+req.Quantity); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return s.loadCart(ctx, userID)
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID uuid.UUID, req *models.UpdateQuantityRequest) (*models.Cart, error) {

	if req.Quantity == 0 {
		return s.RemoveItem(ctx, userID, req.ProductID)
	}

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	line, err := s.repo.GetLine(ctx, cart.ID, req.ProductID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Item not found in cart").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to fetch cart item").WithError(err)
	}

	if req.Quantity > line.Stock {
		return nil, errors.InsufficientStockError(line.ProductName)
	}

	if err := s.repo.SetLineQuantity(ctx, cart.ID, req.ProductID, req.Quantity); err != nil {
		return nil, errors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return s.loadCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if err := s.repo.RemoveLine(ctx, cart.ID, productID); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Item not found in cart").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return s.loadCart(ctx, userID)
}

// ClearCart empties the user's cart. Clearing an empty cart is not an error.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {

	cart, err := s.repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if err := s.repo.ClearCart(ctx, cart.ID); err != nil {
		return errors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

// MergeStaged folds the pre-login staging mapping into the user's cart.
// Unparsable ids, non-positive quantities, missing and sold out products are
// dropped. Staged quantities are clamped to models.MaxLineQuantity and every
// merged line is capped at the product's stock.
func (s *cartService) MergeStaged(ctx context.Context, userID uuid.UUID, staged models.StagedCart) error {

	if len(staged) == 0 {
		return nil
	}

	logger := middleware.LoggerFromContext(ctx)

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {

		cart, err := s.repo.GetOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}

		for rawID, quantity := range staged {
			if quantity <= 0 {
				logger.Debug("Dropping staged line with non-positive quantity", "product_id", rawID)
				continue
			}

			productID, err := uuid.Parse(rawID)
			if err != nil {
				logger.Debug("Dropping staged line with invalid product id", "product_id", rawID)
				continue
			}

			quantity = min(quantity, models.MaxLineQuantity)

			merged, err := s.repo.MergeLine(ctx, cart.ID, productID, quantity)
			if err != nil {
				return err
			}

			if merged == 0 {
				logger.Debug("Dropping staged line for unavailable product", "product_id", rawID)
			}
		}

		return nil
	})
	if err != nil {
		return errors.DatabaseError("Failed to merge cart").WithError(err)
	}

	return nil
}
