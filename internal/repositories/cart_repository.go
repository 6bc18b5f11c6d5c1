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

var errNoTransaction = errors.New("row locks require a transaction")

type CartRepository interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error)
	LockLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error)
	GetLine(ctx context.Context, cartID, productID uuid.UUID) (*models.CartLine, error)
	SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	MergeLine(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int, error)
	RemoveLine(ctx context.Context, cartID, productID uuid.UUID) error
	ClearCart(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// GetOrCreateCart returns the user's single cart, creating it on first use.
func (r *cartRepository) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at`

	cart := &models.Cart{Lines: []models.CartLine{}}

	err := executor(ctx, r.DB).QueryRowContext(dbCtx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create cart: %w", err)
	}

	return cart, nil
}

const cartLineQuery = `
		SELECT cl.id, cl.cart_id, cl.product_id, p.name, p.price, cl.quantity, p.stock
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1
		ORDER BY p.id`

func (r *cartRepository) queryLines(ctx context.Context, query string, args ...any) ([]models.CartLine, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := executor(ctx, r.DB).QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cart lines: %w", err)
	}
	defer rows.Close()

	lines := []models.CartLine{}

	for rows.Next() {
		var line models.CartLine

		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.ProductName, &line.UnitPrice, &line.Quantity, &line.Stock); err != nil {
			return nil, fmt.Errorf("scanning cart line: %w", err)
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func (r *cartRepository) GetLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {
	return r.queryLines(ctx, cartLineQuery, cartID)
}

// LockLines loads the cart lines and row-locks their products in id order,
// so concurrent checkouts over shared products serialize without deadlocking.
func (r *cartRepository) LockLines(ctx context.Context, cartID uuid.UUID) ([]models.CartLine, error) {

	if !inTransaction(ctx) {
		return nil, errNoTransaction
	}

	return r.queryLines(ctx, cartLineQuery+`
		FOR UPDATE OF p`, cartID)
}

func (r *cartRepository) GetLine(ctx context.Context, cartID, productID uuid.UUID) (*models.CartLine, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT cl.id, cl.cart_id, cl.product_id, p.name, p.price, cl.quantity, p.stock
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1 AND cl.product_id = $2`

	var line models.CartLine

	err := executor(ctx, r.DB).QueryRowContext(dbCtx, query, cartID, productID).
		Scan(&line.ID, &line.CartID, &line.ProductID, &line.ProductName, &line.UnitPrice, &line.Quantity, &line.Stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying cart line: %w", err)
	}

	return &line, nil
}

// SetLineQuantity inserts the line or overwrites its quantity.
func (r *cartRepository) SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_lines (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity`

	if _, err := executor(ctx, r.DB).ExecContext(dbCtx, query, cartID, productID, quantity); err != nil {
		return fmt.Errorf("failed to set cart line quantity: %w", err)
	}

	return nil
}

// MergeLine adds quantity to the line, saturating at the product's current
// stock. Missing or sold out products are skipped and 0 is returned.
func (r *cartRepository) MergeLine(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_lines (cart_id, product_id, quantity)
		SELECT $1, p.id, LEAST($3::int, p.stock)
		FROM products p
		WHERE p.id = $2 AND p.stock > 0
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity = LEAST(cart_lines.quantity + $3::int, (SELECT stock FROM products WHERE id = EXCLUDED.product_id))
		RETURNING quantity`

	var merged int

	err := executor(ctx, r.DB).QueryRowContext(dbCtx, query, cartID, productID, quantity).Scan(&merged)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to merge cart line: %w", err)
	}

	return merged, nil
}

func (r *cartRepository) RemoveLine(ctx context.Context, cartID, productID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := executor(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get removed rows: %w", err)
	}

	if removed == 0 {
		return ErrNotFound
	}

	return nil
}

// ClearCart drops every line but keeps the cart row.
func (r *cartRepository) ClearCart(ctx context.Context, cartID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := executor(ctx, r.DB).ExecContext(dbCtx, `DELETE FROM cart_lines WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
