package api

import (
	"net/http"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/handlers"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/metrics"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	"github.com/alexedwards/scs/v2"
)

type Handlers struct {
	User         *handlers.UserHandler
	Store        *handlers.StoreHandler
	Category     *handlers.CategoryHandler
	Product      *handlers.ProductHandler
	Cart         *handlers.CartHandler
	Order        *handlers.OrderHandler
	Review       *handlers.ReviewHandler
	Notification *handlers.NotificationHandler
}

// NewRouter registers every API route with its capability gate. The returned
// handler loads the session around the mux; /health and /metrics are mounted
// by the caller.
func NewRouter(h Handlers, auth *middleware.AuthMiddleware, sessions *scs.SessionManager) http.Handler {

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return auth.Authenticate(next)
	}

	can := func(capability models.Capability, next http.HandlerFunc) http.HandlerFunc {
		return auth.Authenticate(auth.Require(capability)(next))
	}

	mux := http.NewServeMux()

	// users
	mux.HandleFunc("POST /api/v1/users/register", h.User.Register())
	mux.HandleFunc("POST /api/v1/users/login", h.User.Login())
	mux.HandleFunc("GET /api/v1/users/profile", authed(h.User.Profile()))

	// stores
	mux.HandleFunc("GET /api/v1/stores", h.Store.ListStores())
	mux.HandleFunc("POST /api/v1/stores", can(models.CapManageStores, h.Store.CreateStore()))
	mux.HandleFunc("GET /api/v1/stores/mine", can(models.CapManageStores, h.Store.ListMyStores()))
	mux.HandleFunc("GET /api/v1/stores/mine/stats", can(models.CapManageStores, h.Order.VendorStats()))
	mux.HandleFunc("GET /api/v1/stores/{id}", h.Store.GetStore())
	mux.HandleFunc("PUT /api/v1/stores/{id}", can(models.CapManageStores, h.Store.UpdateStore()))
	mux.HandleFunc("DELETE /api/v1/stores/{id}", can(models.CapManageStores, h.Store.DeleteStore()))
	mux.HandleFunc("GET /api/v1/stores/{id}/products", h.Product.ListStoreProducts())
	mux.HandleFunc("POST /api/v1/stores/{id}/products", can(models.CapManageStores, h.Product.CreateProduct()))

	// catalog
	mux.HandleFunc("GET /api/v1/categories", h.Category.ListCategories())
	mux.HandleFunc("POST /api/v1/categories", can(models.CapManageCatalog, h.Category.CreateCategory()))
	mux.HandleFunc("PUT /api/v1/categories/{id}", can(models.CapManageCatalog, h.Category.UpdateCategory()))
	mux.HandleFunc("DELETE /api/v1/categories/{id}", can(models.CapManageCatalog, h.Category.DeleteCategory()))
	mux.HandleFunc("GET /api/v1/products", h.Product.ListProducts())
	mux.HandleFunc("GET /api/v1/products/{id}", h.Product.GetProduct())
	mux.HandleFunc("PUT /api/v1/products/{id}", can(models.CapManageStores, h.Product.UpdateProduct()))
	mux.HandleFunc("DELETE /api/v1/products/{id}", can(models.CapManageStores, h.Product.DeleteProduct()))
	mux.HandleFunc("GET /api/v1/products/{id}/reviews", h.Review.ListReviews())
	mux.HandleFunc("POST /api/v1/products/{id}/reviews", can(models.CapReview, h.Review.CreateReview()))
	mux.HandleFunc("PUT /api/v1/reviews/{id}", can(models.CapReview, h.Review.UpdateReview()))
	mux.HandleFunc("DELETE /api/v1/reviews/{id}", can(models.CapReview, h.Review.DeleteReview()))

	// carts
	mux.HandleFunc("GET /api/v1/carts", can(models.CapShop, h.Cart.GetCart()))
	mux.HandleFunc("DELETE /api/v1/carts", can(models.CapShop, h.Cart.ClearCart()))
	mux.HandleFunc("POST /api/v1/carts/items", can(models.CapShop, h.Cart.AddItem()))
	mux.HandleFunc("PUT /api/v1/carts/items", can(models.CapShop, h.Cart.UpdateQuantity()))
	mux.HandleFunc("DELETE /api/v1/carts/items/{productId}", can(models.CapShop, h.Cart.RemoveItem()))
	mux.HandleFunc("GET /api/v1/session/cart", h.Cart.GetStaged())
	mux.HandleFunc("POST /api/v1/session/cart/items", h.Cart.StageItem())

	// orders
	mux.HandleFunc("POST /api/v1/orders", can(models.CapShop, h.Order.Checkout()))
	mux.HandleFunc("GET /api/v1/orders", authed(h.Order.ListOrders()))
	mux.HandleFunc("GET /api/v1/orders/{id}", authed(h.Order.GetOrder()))
	mux.HandleFunc("PATCH /api/v1/orders/{id}/status", can(models.CapManageOrders, h.Order.UpdateOrderStatus()))

	// notification log
	mux.HandleFunc("GET /api/v1/notifications", can(models.CapManageOrders, h.Notification.ListNotifications()))
	mux.HandleFunc("GET /api/v1/notifications/{id}", can(models.CapManageOrders, h.Notification.GetNotification()))

	return sessions.LoadAndSave(metrics.Middleware(mux))
}
