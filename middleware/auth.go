// Package middleware holds the request pipeline stages that run before a
// handler.
//
// Every request to an admin route passes through a chain:
//
//	Auth -> Admin -> Handler
//
// A stage is a func(next http.Handler) http.Handler. It does its own check
// (read the token, look at the role) and then calls next. When the check
// fails it writes the error response itself and never calls next, so the
// request stops there.
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/winteradda/storefront/handlers"
	"github.com/winteradda/storefront/pkg"
	"github.com/winteradda/storefront/repository"
	"github.com/winteradda/storefront/services"
)

// AuthMiddleware authenticates the bearer token and loads its user.
type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Require makes a valid access token mandatory. Anything else is a 401.
//
// Header format: Authorization: Bearer <token>
//
// Steps:
//  1. Read the Authorization header. Missing -> "No token provided".
//  2. Strip the "Bearer " prefix. Any other scheme is rejected.
//  3. Check signature, algorithm, issuer and expiry via ValidateAccessToken.
//  4. Load the user from the database. The token only proves who the caller
//     was at issue time; the account may be gone since, and the role in the
//     claims may be stale. Later stages see the stored user, not the claims.
//  5. Put the user (without its password hash) in the request context and
//     call next.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "No token provided")
			return
		}

		// 2. Scheme
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}

		// 3. Token
		claims, err := m.authService.ValidateAccessToken(strings.TrimSpace(tokenString))
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		// 4. User, re-read on every request
		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, pkg.ErrNotFound) {
				log.Printf("[auth] failed to load user %s: %v", claims.UserID, err)
			}
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found")
			return
		}

		// 5. Hand off
		user.PasswordHash = ""

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
