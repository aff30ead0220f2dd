package handlers

import (
	"context"

	"github.com/winteradda/storefront/models"
)

type contextKey string

// UserContextKey is where AuthMiddleware stores the authenticated *models.User.
const UserContextKey contextKey = "user"

// UserFromContext returns the user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok && user != nil
}
