package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/errors"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/models"
	"github.com/aaravmahajanofficial/multivendor-marketplace/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey}

}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok && claims != nil
}

// WithClaims stores claims on ctx the way Authenticate does.
func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		claims, appErr := m.parseToken(r, logger)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()), slog.String("role", string(claims.Role)))
		ctx := WithLogger(WithClaims(r.Context(), claims), requestScopedLogger)

		requestScopedLogger.Info("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Require rejects authenticated users whose role lacks capability.
// It must run after Authenticate.
func (m *AuthMiddleware) Require(capability models.Capability) func(http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())

			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				logger.Warn("Capability check without authentication", slog.String("capability", string(capability)))
				response.Error(w, errors.UnauthorizedError("Authentication required"))
				return
			}

			if !claims.Role.Can(capability) {
				logger.Warn("Permission denied", slog.String("capability", string(capability)))
				response.Error(w, errors.ForbiddenError("You do not have permission to perform this action"))
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}

func (m *AuthMiddleware) parseToken(r *http.Request, logger *slog.Logger) (*models.Claims, *errors.AppError) {

	// Get token from Authorization header
	authHeader := r.Header.Get("Authorization")

	if authHeader == "" {
		logger.Warn("Missing authorization header")
		return nil, errors.UnauthorizedError("Authorization header is required")
	}

	// Token is of format : "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		logger.Warn("Invalid authorization header format")
		return nil, errors.UnauthorizedError("Invalid authorization format")
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		return m.jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
		return nil, errors.UnauthorizedError("Invalid or expired token")
	}

	if !token.Valid || claims.UserID == uuid.Nil || !claims.Role.Valid() {
		logger.Warn("Invalid token claims")
		return nil, errors.UnauthorizedError("Invalid token")
	}

	return claims, nil
}
