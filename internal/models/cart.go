package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID          uuid.UUID       `json:"id"`
	CartID      uuid.UUID       `json:"cart_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Stock       int             `json:"-"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Cart struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// Recalculate refreshes every line subtotal and the cart total.
func (c *Cart) Recalculate() {
	total := decimal.Zero

	for i := range c.Lines {
		line := &c.Lines[i]
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(line.Subtotal)
	}

	c.Total = total
}

// MaxLineQuantity bounds a single cart line. It keeps staged sums well inside
// the database integer column.
const MaxLineQuantity = 10000

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"required,min=1,max=10000"`
}

// Quantity 0 removes the line.
type UpdateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"min=0,max=10000"`
}

// StagedCart is the pre-login cart held in the session, keyed by product id.
type StagedCart map[string]int

type StagedCartResponse struct {
	Items StagedCart `json:"items"`
	Count int        `json:"count"`
}
