package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ukydev/rental-market/internal/auth"
	"github.com/ukydev/rental-market/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	UserContextKey contextKey = "user"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authService *auth.Service
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate validates the request token and adds the claims to the
// request context. The token is read from the Authorization header, with
// or without a Bearer prefix, or from the token header.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			WriteError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			msg := "Not authorized, invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Not authorized, token expired"
			}
			WriteError(w, http.StatusUnauthorized, msg)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok
}

func tokenFromRequest(r *http.Request) string {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		if token, err := auth.ExtractTokenFromHeader(h); err == nil {
			return token
		}
		return h
	}
	return strings.TrimSpace(r.Header.Get("token"))
}

// WriteError writes the JSON error envelope.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}
