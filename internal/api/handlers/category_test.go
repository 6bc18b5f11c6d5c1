package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/handlers"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	svcMocks "github.com/aaravmahajanofficial/multivendor-marketplace/internal/services/mocks"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCategoryHandler(t *testing.T) {
	t.Run("Success - Create category", func(t *testing.T) {
		// Arrange
		mockService := svcMocks.NewCategoryService(t)
		handler := handlers.NewCategoryHandler(mockService)

		reqBody := models.CreateCategoryRequest{Name: "Home & Kitchen"}
		mockService.On("CreateCategory", mock.Anything, &reqBody).
			Return(&models.Category{ID: uuid.New(), Name: reqBody.Name, Slug: "home-and-kitchen"}, nil).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodPost, "/api/v1/categories", jsonBody(t, reqBody), uuid.New(), models.RoleAdmin, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.CreateCategory()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("Success - List categories", func(t *testing.T) {
		// Arrange
		mockService := svcMocks.NewCategoryService(t)
		handler := handlers.NewCategoryHandler(mockService)

		mockService.On("ListCategories", mock.Anything).
			Return([]*models.Category{{ID: uuid.New(), Name: "Books", Slug: "books"}}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/categories", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.ListCategories()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var got []models.Category
		decodeData(t, decodeResponse(t, recorder), &got)
		assert.Len(t, got, 1)
		assert.Equal(t, "books", got[0].Slug)
	})

	t.Run("Failure - Unexpected error is masked", func(t *testing.T) {
		// Arrange
		mockService := svcMocks.NewCategoryService(t)
		handler := handlers.NewCategoryHandler(mockService)

		mockService.On("ListCategories", mock.Anything).Return(nil, errors.New("pq: connection refused")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/categories", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.ListCategories()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		resp := decodeResponse(t, recorder)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
		assert.NotContains(t, recorder.Body.String(), "connection refused")
	})
}

func TestCategoryHandler_UpdateAndDelete(t *testing.T) {
	t.Run("Success - Update category", func(t *testing.T) {
		// Arrange
		mockService := svcMocks.NewCategoryService(t)
		handler := handlers.NewCategoryHandler(mockService)

		categoryID := uuid.New()
		name := "Kitchen"
		reqBody := models.UpdateCategoryRequest{Name: &name}

		mockService.On("UpdateCategory", mock.Anything, categoryID, &reqBody).
			Return(&models.Category{ID: categoryID, Name: name, Slug: "home-and-kitchen"}, nil).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodPut, "/api/v1/categories/"+categoryID.String(),
			jsonBody(t, reqBody), uuid.New(), models.RoleAdmin, map[string]string{"id": categoryID.String()})
		recorder := httptest.NewRecorder()

		// Act
		handler.UpdateCategory()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var got models.Category
		decodeData(t, decodeResponse(t, recorder), &got)
		assert.Equal(t, "home-and-kitchen", got.Slug)
	})

	t.Run("Failure - Name too short", func(t *testing.T) {
		// Arrange
		handler := handlers.NewCategoryHandler(svcMocks.NewCategoryService(t))

		categoryID := uuid.New()
		name := "K"
		req := testutils.CreateTestRequestWithRole(http.MethodPut, "/api/v1/categories/"+categoryID.String(),
			jsonBody(t, models.UpdateCategoryRequest{Name: &name}), uuid.New(), models.RoleAdmin, map[string]string{"id": categoryID.String()})
		recorder := httptest.NewRecorder()

		// Act
		handler.UpdateCategory()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Success - Delete category", func(t *testing.T) {
		// Arrange
		mockService := svcMocks.NewCategoryService(t)
		handler := handlers.NewCategoryHandler(mockService)

		categoryID := uuid.New()
		mockService.On("DeleteCategory", mock.Anything, categoryID).Return(nil).Once()

		req := testutils.CreateTestRequestWithRole(http.MethodDelete, "/api/v1/categories/"+categoryID.String(),
			nil, uuid.New(), models.RoleAdmin, map[string]string{"id": categoryID.String()})
		recorder := httptest.NewRecorder()

		// Act
		handler.DeleteCategory()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})
}
