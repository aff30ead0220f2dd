package middleware

import (
	"net/http"

	"github.com/winteradda/storefront/handlers"
	"github.com/winteradda/storefront/pkg"
)

// AdminMiddleware runs after AuthMiddleware and lets only admins through.
//
//	authMw.Require(adminMw.Require(http.HandlerFunc(productHandler.Create)))
type AdminMiddleware struct{}

func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// Require answers 403 for any authenticated user whose stored role is not admin.
func (m *AdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := handlers.UserFromContext(r.Context())
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if !user.IsAdmin() {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "Access denied. Admin only.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
