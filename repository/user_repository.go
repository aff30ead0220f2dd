// Package repository is the persistence layer. Services depend on the
// interfaces declared here; the sqlite_*.go and redis_*.go files implement them.
package repository

import (
	"context"

	"github.com/winteradda/storefront/models"
)

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateRole is used by the make-admin command to promote an account.
	UpdateRole(ctx context.Context, userID string, role models.Role) error
}
