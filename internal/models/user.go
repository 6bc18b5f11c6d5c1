package models

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// Capability is a single permission a role may hold.
type Capability string

const (
	CapManageStores  Capability = "manage_stores"
	CapShop          Capability = "shop"
	CapReview        Capability = "review"
	CapManageCatalog Capability = "manage_catalog"
	CapManageOrders  Capability = "manage_orders"
)

var roleCapabilities = map[Role][]Capability{
	RoleBuyer:  {CapShop, CapReview},
	RoleVendor: {CapManageStores, CapShop, CapReview},
	RoleAdmin:  {CapManageStores, CapShop, CapReview, CapManageCatalog, CapManageOrders},
}

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role holds the capability. Unknown roles hold nothing.
func (r Role) Can(c Capability) bool {
	return slices.Contains(roleCapabilities[r], c)
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// for registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=buyer vendor"`
}

// for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// for login response
type LoginResponse struct {
	Success        bool   `json:"success"`
	Token          string `json:"token,omitempty"`
	ExpiresIn      int    `json:"expires_in,omitempty"`
	RemainingTries int    `json:"remaining_tries,omitempty"`
	RetryAfter     int    `json:"retry_after,omitempty"`
	Message        string `json:"message,omitempty"`
}

// JWT claims structure
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	jwt.RegisteredClaims
}
