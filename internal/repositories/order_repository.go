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

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error
	VendorSalesSummary(ctx context.Context, ownerID uuid.UUID, recent int) (*models.VendorStats, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder inserts the order header and its items. Callers run it inside
// a transaction so a failed item insert leaves no partial order behind.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	exec := executor(ctx, r.DB)

	query := `
		INSERT INTO orders (id, order_number, buyer_id, status, subtotal, shipping_cost, total,
			first_name, last_name, email, phone, shipping_address, billing_address,
			city, region, postal_code, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := exec.QueryRowContext(dbCtx, query,
		order.ID, order.OrderNumber, order.BuyerID, order.Status, order.Subtotal, order.ShippingCost, order.Total,
		order.FirstName, order.LastName, order.Email, order.Phone, order.ShippingAddress, order.BillingAddress,
		order.City, order.Region, order.PostalCode, order.Country,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, item := range order.Items {
		if _, err := exec.ExecContext(dbCtx, itemQuery, item.ID, order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice); err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, order_number, buyer_id, status, subtotal, shipping_cost, total,
	first_name, last_name, email, phone, shipping_address, billing_address,
	city, region, postal_code, country, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }, order *models.Order) error {
	return row.Scan(&order.ID, &order.OrderNumber, &order.BuyerID, &order.Status, &order.Subtotal, &order.ShippingCost, &order.Total,
		&order.FirstName, &order.LastName, &order.Email, &order.Phone, &order.ShippingAddress, &order.BillingAddress,
		&order.City, &order.Region, &order.PostalCode, &order.Country, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	exec := executor(ctx, r.DB)
	order := &models.Order{}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	if err := scanOrder(exec.QueryRowContext(dbCtx, query, id), order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	itemQuery := `
		SELECT id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name`

	rows, err := exec.QueryContext(dbCtx, itemQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}

	for rows.Next() {
		item := models.OrderItem{OrderID: order.ID}

		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrdersByBuyer returns order headers, newest first. Items are loaded by GetOrderByID.
func (r *orderRepository) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE buyer_id = $1`
	if err := r.DB.QueryRowContext(dbCtx, countQuery, buyerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, buyerID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		var order models.Order

		if err := scanOrder(rows, &order); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateOrderStatus moves the order from one status to another. The write only
// applies while the order is still in the from status, otherwise ErrConflict.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	result, err := executor(ctx, r.DB).ExecContext(dbCtx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return ErrConflict
	}

	return nil
}

// VendorSalesSummary aggregates order items of products in stores owned by
// ownerID. Items whose product was deleted no longer resolve to a store and
// drop out.
func (r *orderRepository) VendorSalesSummary(ctx context.Context, ownerID uuid.UUID, recent int) (*models.VendorStats, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	stats := &models.VendorStats{RecentSales: []models.VendorSale{}}

	totalsQuery := `
		SELECT
			(SELECT COUNT(*) FROM products p JOIN stores s ON s.id = p.store_id WHERE s.owner_id = $1),
			COUNT(DISTINCT oi.order_id),
			COALESCE(SUM(oi.unit_price * oi.quantity), 0),
			COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		JOIN stores s ON s.id = p.store_id
		WHERE s.owner_id = $1 AND o.status <> 'cancelled'`

	err := r.DB.QueryRowContext(dbCtx, totalsQuery, ownerID).
		Scan(&stats.ProductCount, &stats.OrderCount, &stats.TotalSales, &stats.UnitsSold)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate vendor sales: %w", err)
	}

	recentQuery := `
		SELECT o.id, o.order_number, o.status, oi.product_id, oi.product_name, oi.quantity, oi.unit_price, o.created_at
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		JOIN stores s ON s.id = p.store_id
		WHERE s.owner_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2`

	rows, err := r.DB.QueryContext(dbCtx, recentQuery, ownerID, recent)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent vendor sales: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sale models.VendorSale

		if err := rows.Scan(&sale.OrderID, &sale.OrderNumber, &sale.Status, &sale.ProductID, &sale.ProductName,
			&sale.Quantity, &sale.UnitPrice, &sale.OrderedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vendor sale: %w", err)
		}

		stats.RecentSales = append(stats.RecentSales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
