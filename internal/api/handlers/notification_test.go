package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	svcMocks "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services/mocks"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationHandler_ListNotifications(t *testing.T) {
	t.Run("Success - Delivery log page", func(t *testing.T) {
		// Arrange
		mockService := svcMocks.NewNotificationService(t)
		handler := handlers.NewNotificationHandler(mockService)

		notifications := []*models.Notification{
			{ID: uuid.New(), Type: models.NotificationTypeEmail, Recipient: "ana@example.com", Status: models.StatusSent},
			{ID: uuid.New(), Type: models.NotificationTypeEmail, Recipient: "bo@example.com", Status: models.StatusFailed, ErrorMessage: "bounced"},
		}
		mockService.On("ListNotifications", mock.Anything, 1, 10).Return(notifications, 2, nil).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodGet, "/api/v1/notifications", nil, uuid.New(), models.RoleAdmin, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.ListNotifications()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var got models.PaginatedResponse
		decodeData(t, decodeResponse(t, recorder), &got)
		assert.Equal(t, 2, got.Total)
	})

	t.Run("Failure - Service error", func(t *testing.T) {
		// Arrange
		mockService := svcMocks.NewNotificationService(t)
		handler := handlers.NewNotificationHandler(mockService)

		mockService.On("ListNotifications", mock.Anything, 1, 10).
			Return(nil, 0, appErrors.DatabaseError("Failed to list notifications")).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodGet, "/api/v1/notifications", nil, uuid.New(), models.RoleAdmin, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.ListNotifications()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, decodeResponse(t, recorder).Error.Code)
	})
}

func TestNotificationHandler_GetNotification(t *testing.T) {
	// Arrange
	mockService := svcMocks.NewNotificationService(t)
	handler := handlers.NewNotificationHandler(mockService)

	id := uuid.New()
	mockService.On("GetNotification", mock.Anything, id).
		Return(nil, appErrors.NotFoundError("Notification not found")).Once()

	req := testutils.CreateTestRequestWithRole(http.MethodGet, "/api/v1/notifications/"+id.String(),
		nil, uuid.New(), models.RoleAdmin, map[string]string{"id": id.String()})
	recorder := httptest.NewRecorder()

	// Act
	handler.GetNotification()(recorder, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
