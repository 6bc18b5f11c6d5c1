package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	svcMocks "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services/mocks"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/session"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/testutils"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type orderFixture struct {
	checkout *svcMocks.CheckoutService
	orders   *svcMocks.OrderService
	carts    *svcMocks.CartService
	sessions *scs.SessionManager
	staging  *session.StagingCart
	handler  *handlers.OrderHandler
}

func setupOrderTest(t *testing.T) *orderFixture {
	sm, staging := newStaging()
	f := &orderFixture{
		checkout: svcMocks.NewCheckoutService(t),
		orders:   svcMocks.NewOrderService(t),
		carts:    svcMocks.NewCartService(t),
		sessions: sm,
		staging:  staging,
	}
	f.handler = handlers.NewOrderHandler(f.checkout, f.orders, f.carts, staging)
	return f
}

func checkoutRequest() models.CheckoutRequest {
	return models.CheckoutRequest{
		FirstName:       "Ana",
		LastName:        "Silva",
		Email:           "ana@example.com",
		ShippingAddress: "Rua Augusta 1",
		City:            "Lisbon",
		PostalCode:      "1100-048",
		Country:         "PT",
	}
}

func TestOrderHandler_Checkout(t *testing.T) {
	t.Run("Success - Order created with location", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		buyerID, productID := uuid.New(), uuid.New()
		reqBody := checkoutRequest()

		req := withSession(t, f.sessions, testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", jsonBody(t, reqBody), buyerID, nil))
		f.staging.Add(req.Context(), productID, 1)

		orderID := uuid.New()
		order := &models.Order{
			ID:          orderID,
			OrderNumber: models.OrderNumberFor(orderID),
			BuyerID:     buyerID,
			Status:      models.OrderStatusPending,
			Subtotal:    decimal.RequireFromString("35.00"),
			Total:       decimal.RequireFromString("35.00"),
		}

		f.carts.On("MergeStaged", mock.Anything, buyerID, models.StagedCart{productID.String(): 1}).Return(nil).Once()
		f.checkout.On("Checkout", mock.Anything, buyerID, &reqBody).Return(order, nil).Once()

		recorder := httptest.NewRecorder()

		// Act
		f.handler.Checkout()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, "/api/v1/orders/"+orderID.String(), recorder.Header().Get("Location"))
		assert.Empty(t, f.staging.Staged(req.Context()))

		var got models.Order
		decodeData(t, decodeResponse(t, recorder), &got)
		assert.Equal(t, order.OrderNumber, got.OrderNumber)
		assert.True(t, got.Total.Equal(decimal.RequireFromString("35.00")))
	})

	t.Run("Failure - Empty cart", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		buyerID := uuid.New()
		reqBody := checkoutRequest()

		f.checkout.On("Checkout", mock.Anything, buyerID, &reqBody).Return(nil, appErrors.EmptyCartError()).Once()

		req := withSession(t, f.sessions, testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", jsonBody(t, reqBody), buyerID, nil))
		recorder := httptest.NewRecorder()

		// Act
		f.handler.Checkout()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.Equal(t, appErrors.ErrCodeEmptyCart, resp.Error.Code)
		assert.Equal(t, "Your cart is empty", resp.Error.Message)
	})

	t.Run("Failure - Insufficient stock", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		buyerID := uuid.New()
		reqBody := checkoutRequest()

		f.checkout.On("Checkout", mock.Anything, buyerID, &reqBody).
			Return(nil, appErrors.InsufficientStockError("Mug")).Once()

		req := withSession(t, f.sessions, testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", jsonBody(t, reqBody), buyerID, nil))
		recorder := httptest.NewRecorder()

		// Act
		f.handler.Checkout()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, []string{"Not enough stock for Mug"}, decodeResponse(t, recorder).Error.Details)
	})

	t.Run("Failure - Missing contact details", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)

		reqBody := checkoutRequest()
		reqBody.Email = "not-an-email"
		reqBody.City = ""

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/orders", jsonBody(t, reqBody), uuid.New(), nil)
		recorder := httptest.NewRecorder()

		// Act
		f.handler.Checkout()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	t.Run("Success - Viewer claims forwarded", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		buyerID, orderID := uuid.New(), uuid.New()

		f.orders.On("GetOrder", mock.Anything, mock.MatchedBy(func(c *models.Claims) bool {
			return c.UserID == buyerID && c.Role == models.RoleBuyer
		}), orderID).Return(&models.Order{ID: orderID, BuyerID: buyerID}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+orderID.String(),
			nil, buyerID, map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		// Act
		f.handler.GetOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Failure - Someone else's order", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		orderID := uuid.New()

		f.orders.On("GetOrder", mock.Anything, mock.Anything, orderID).
			Return(nil, appErrors.NotFoundError("Order not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders/"+orderID.String(),
			nil, uuid.New(), map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		// Act
		f.handler.GetOrder()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	t.Run("Success - Paginated", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		buyerID := uuid.New()

		f.orders.On("ListOrders", mock.Anything, buyerID, 1, 10).
			Return([]models.Order{{ID: uuid.New(), BuyerID: buyerID}}, 1, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders", nil, buyerID, nil)
		recorder := httptest.NewRecorder()

		// Act
		f.handler.ListOrders()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var got models.PaginatedResponse
		decodeData(t, decodeResponse(t, recorder), &got)
		assert.Equal(t, 1, got.Total)
	})

	t.Run("Failure - Repository error", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		buyerID := uuid.New()

		f.orders.On("ListOrders", mock.Anything, buyerID, 1, 10).Return(nil, 0, errors.New("boom")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/orders", nil, buyerID, nil)
		recorder := httptest.NewRecorder()

		// Act
		f.handler.ListOrders()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	})
}

func TestOrderHandler_UpdateOrderStatus(t *testing.T) {
	t.Run("Success - Legal transition", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		orderID := uuid.New()

		f.orders.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusProcessing).
			Return(&models.Order{ID: orderID, Status: models.OrderStatusProcessing}, nil).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status",
			jsonBody(t, models.UpdateOrderStatusRequest{Status: models.OrderStatusProcessing}),
			uuid.New(), models.RoleAdmin, map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		// Act
		f.handler.UpdateOrderStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Failure - Unknown status", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		orderID := uuid.New()

		req := testutils.CreateTestRequestWithRole(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status",
			jsonBody(t, map[string]string{"status": "shipped"}),
			uuid.New(), models.RoleAdmin, map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		// Act
		f.handler.UpdateOrderStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, decodeResponse(t, recorder).Error.Code)
	})

	t.Run("Failure - Illegal transition", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		orderID := uuid.New()

		f.orders.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusPending).
			Return(nil, appErrors.ValidationError("Cannot change order status from completed to pending")).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status",
			jsonBody(t, models.UpdateOrderStatusRequest{Status: models.OrderStatusPending}),
			uuid.New(), models.RoleAdmin, map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		// Act
		f.handler.UpdateOrderStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, decodeResponse(t, recorder).Error.Message, "from completed to pending")
	})
	t.Run("Failure - Status changed concurrently", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		orderID := uuid.New()

		f.orders.On("UpdateOrderStatus", mock.Anything, orderID, models.OrderStatusProcessing).
			Return(nil, appErrors.ConflictError("Order status changed, reload and retry")).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status",
			jsonBody(t, models.UpdateOrderStatusRequest{Status: models.OrderStatusProcessing}),
			uuid.New(), models.RoleAdmin, map[string]string{"id": orderID.String()})
		recorder := httptest.NewRecorder()

		// Act
		f.handler.UpdateOrderStatus()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, appErrors.ErrCodeConflict, decodeResponse(t, recorder).Error.Code)
	})
}

func TestOrderHandler_VendorStats(t *testing.T) {
	t.Run("Success - Summary for the caller", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)
		vendorID := uuid.New()

		f.orders.On("VendorStats", mock.Anything, vendorID).Return(&models.VendorStats{
			OrderCount:  2,
			TotalSales:  decimal.RequireFromString("57.50"),
			UnitsSold:   5,
			RecentSales: []models.VendorSale{{ProductName: "Mug", Quantity: 3}},
		}, nil).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodGet, "/api/v1/stores/mine/stats", nil, vendorID, models.RoleVendor, nil)
		recorder := httptest.NewRecorder()

		// Act
		f.handler.VendorStats()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var got models.VendorStats
		decodeData(t, decodeResponse(t, recorder), &got)
		assert.Equal(t, 2, got.OrderCount)
		assert.Equal(t, 5, got.UnitsSold)
		assert.True(t, decimal.RequireFromString("57.50").Equal(got.TotalSales))
		assert.Len(t, got.RecentSales, 1)
	})

	t.Run("Failure - Anonymous", func(t *testing.T) {
		// Arrange
		f := setupOrderTest(t)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/stores/mine/stats", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		f.handler.VendorStats()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
