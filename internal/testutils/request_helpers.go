// Package testutils builds handler requests that look like they already went
// through the logging and auth middleware.
package testutils

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	"github.com/google/uuid"
)

var discardLogger = slog.New(slog.DiscardHandler)

func newRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	for name, value := range pathParams {
		req.SetPathValue(name, value)
	}

	return req.WithContext(middleware.WithLogger(req.Context(), discardLogger))
}

// CreateTestRequestWithContext builds a request authenticated as a buyer.
func CreateTestRequestWithContext(method, target string, body io.Reader, userID uuid.UUID, pathParams map[string]string) *http.Request {
	return CreateTestRequestWithRole(method, target, body, userID, models.RoleBuyer, pathParams)
}

func CreateTestRequestWithRole(method, target string, body io.Reader, userID uuid.UUID, role models.Role, pathParams map[string]string) *http.Request {
	req := newRequest(method, target, body, pathParams)
	claims := &models.Claims{UserID: userID, Email: string(role) + "@example.com", Role: role}

	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

// CreateTestRequestWithoutContext builds an anonymous request.
func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	return newRequest(method, target, body, pathParams)
}
