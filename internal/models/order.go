package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	Status          OrderStatus     `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Total           decimal.Decimal `json:"total"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone,omitempty"`
	ShippingAddress string          `json:"shipping_address"`
	BillingAddress  string          `json:"billing_address"`
	City            string          `json:"city"`
	Region          string          `json:"region,omitempty"`
	PostalCode      string          `json:"postal_code"`
	Country         string          `json:"country"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderNumberFor derives the human facing order number from the order id.
func OrderNumberFor(id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:8])
}

// Contact and delivery details collected at checkout.
type CheckoutRequest struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,max=20"`
	ShippingAddress string `json:"shipping_address" validate:"required,max=500"`
	BillingAddress  string `json:"billing_address,omitempty" validate:"omitempty,max=500"`
	City            string `json:"city" validate:"required,max=100"`
	Region          string `json:"region,omitempty" validate:"omitempty,max=100"`
	PostalCode      string `json:"postal_code" validate:"required,max=20"`
	Country         string `json:"country" validate:"required,max=100"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing completed cancelled"`
}

// VendorSale is one order line for a product in one of the vendor's stores.
type VendorSale struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Status      OrderStatus     `json:"status"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	OrderedAt   time.Time       `json:"ordered_at"`
}

// VendorStats summarises sales across every store a vendor owns. Cancelled
// orders are left out of the totals.
type VendorStats struct {
	ProductCount int             `json:"product_count"`
	OrderCount   int             `json:"order_count"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	UnitsSold    int             `json:"units_sold"`
	RecentSales  []VendorSale    `json:"recent_sales"`
}
