package repository

import (
	"context"

	"github.com/winteradda/storefront/models"
)

// SessionRepository stores refresh token sessions. Two implementations exist:
// SQLite (default) and Redis (when REDIS_URL is configured).
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}
