package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/api/middleware"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
)

// requireClaims writes 401 and returns false when the request carries no claims.
func requireClaims(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*models.Claims, bool) {

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthenticated request", slog.String("path", r.URL.Path))
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}
