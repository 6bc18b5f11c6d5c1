package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/handlers"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	svcMocks "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services/mocks"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/session"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("router-test-key")

type routerFixture struct {
	stores   *svcMocks.StoreService
	products *svcMocks.ProductService
	orders   *svcMocks.OrderService
	handler  http.Handler
}

func setupRouter(t *testing.T) *routerFixture {
	f := &routerFixture{
		stores:   svcMocks.NewStoreService(t),
		products: svcMocks.NewProductService(t),
		orders:   svcMocks.NewOrderService(t),
	}

	carts := svcMocks.NewCartService(t)
	sm := scs.New()
	staging := session.NewStagingCart(sm)

	f.handler = api.NewRouter(api.Handlers{
		User:         handlers.NewUserHandler(svcMocks.NewUserService(t)),
		Store:        handlers.NewStoreHandler(f.stores),
		Category:     handlers.NewCategoryHandler(svcMocks.NewCategoryService(t)),
		Product:      handlers.NewProductHandler(f.products),
		Cart:         handlers.NewCartHandler(carts, f.products, staging),
		Order:        handlers.NewOrderHandler(svcMocks.NewCheckoutService(t), f.orders, carts, staging),
		Review:       handlers.NewReviewHandler(svcMocks.NewReviewService(t)),
		Notification: handlers.NewNotificationHandler(svcMocks.NewNotificationService(t)),
	}, middleware.NewAuthMiddleware(testKey), sm)

	return f
}

func bearer(t *testing.T, userID uuid.UUID, role models.Role) string {
	t.Helper()

	claims := models.Claims{
		UserID: userID,
		Email:  "router@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   userID.String(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)

	return "Bearer " + token
}

func TestRouter_CapabilityGates(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		role   models.Role
		want   int
	}{
		{"Failure - Anonymous store creation", http.MethodPost, "/api/v1/stores", "", http.StatusUnauthorized},
		{"Failure - Buyer cannot open a store", http.MethodPost, "/api/v1/stores", models.RoleBuyer, http.StatusForbidden},
		{"Failure - Vendor cannot create categories", http.MethodPost, "/api/v1/categories", models.RoleVendor, http.StatusForbidden},
		{"Failure - Vendor cannot move order status", http.MethodPatch, "/api/v1/orders/" + uuid.NewString() + "/status", models.RoleVendor, http.StatusForbidden},
		{"Failure - Buyer cannot read the notification log", http.MethodGet, "/api/v1/notifications", models.RoleBuyer, http.StatusForbidden},
		{"Failure - Anonymous checkout", http.MethodPost, "/api/v1/orders", "", http.StatusUnauthorized},
		{"Failure - Vendor cannot edit categories", http.MethodPut, "/api/v1/categories/" + uuid.NewString(), models.RoleVendor, http.StatusForbidden},
		{"Failure - Vendor cannot delete categories", http.MethodDelete, "/api/v1/categories/" + uuid.NewString(), models.RoleVendor, http.StatusForbidden},
		{"Failure - Buyer cannot read vendor stats", http.MethodGet, "/api/v1/stores/mine/stats", models.RoleBuyer, http.StatusForbidden},
		{"Failure - Anonymous review edit", http.MethodPut, "/api/v1/reviews/" + uuid.NewString(), "", http.StatusUnauthorized},
		{"Failure - Anonymous cart clear", http.MethodDelete, "/api/v1/carts", "", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f := setupRouter(t)
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
			if tc.role != "" {
				req.Header.Set("Authorization", bearer(t, uuid.New(), tc.role))
			}
			recorder := httptest.NewRecorder()

			// Act
			f.handler.ServeHTTP(recorder, req)

			// Assert
			assert.Equal(t, tc.want, recorder.Code)
		})
	}
}

func TestRouter_VendorListsOwnStores(t *testing.T) {
	// Arrange
	f := setupRouter(t)
	vendorID := uuid.New()

	f.stores.On("ListMyStores", mock.Anything, vendorID).
		Return([]*models.Store{{ID: uuid.New(), OwnerID: vendorID, Name: "Corner Shop"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/mine", nil)
	req.Header.Set("Authorization", bearer(t, vendorID, models.RoleVendor))
	recorder := httptest.NewRecorder()

	// Act
	f.handler.ServeHTTP(recorder, req)

	// Assert
	assert.Equal(t, http.StatusOK, recorder.Code)
	f.stores.AssertNotCalled(t, "GetStore", mock.Anything, mock.Anything)
}

func TestRouter_VendorStatsIsNotAStoreLookup(t *testing.T) {
	// Arrange
	f := setupRouter(t)
	vendorID := uuid.New()

	f.orders.On("VendorStats", mock.Anything, vendorID).Return(&models.VendorStats{OrderCount: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stores/mine/stats", nil)
	req.Header.Set("Authorization", bearer(t, vendorID, models.RoleVendor))
	recorder := httptest.NewRecorder()

	// Act
	f.handler.ServeHTTP(recorder, req)

	// Assert
	assert.Equal(t, http.StatusOK, recorder.Code)
	f.stores.AssertNotCalled(t, "GetStore", mock.Anything, mock.Anything)
}

func TestRouter_SessionCartSurvivesAcrossRequests(t *testing.T) {
	// Arrange
	f := setupRouter(t)
	productID := uuid.New()

	f.products.On("GetProduct", mock.Anything, productID).
		Return(&models.Product{ID: productID, Name: "Mug", Stock: 3}, nil).Once()

	body := `{"product_id":"` + productID.String() + `","quantity":2}`
	stageReq := httptest.NewRequest(http.MethodPost, "/api/v1/session/cart/items", strings.NewReader(body))
	stageRec := httptest.NewRecorder()

	// Act
	f.handler.ServeHTTP(stageRec, stageReq)

	require.Equal(t, http.StatusOK, stageRec.Code)
	cookies := stageRec.Result().Cookies()
	require.NotEmpty(t, cookies)

	viewReq := httptest.NewRequest(http.MethodGet, "/api/v1/session/cart", nil)
	for _, c := range cookies {
		viewReq.AddCookie(c)
	}
	viewRec := httptest.NewRecorder()
	f.handler.ServeHTTP(viewRec, viewReq)

	// Assert
	assert.Equal(t, http.StatusOK, viewRec.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(viewRec.Body.Bytes(), &resp))

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var staged models.StagedCartResponse
	require.NoError(t, json.Unmarshal(raw, &staged))
	assert.Equal(t, 1, staged.Count)
	assert.Equal(t, 2, staged.Items[productID.String()])
}
