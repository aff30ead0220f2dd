package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/pkg"
)

// Redis layout:
//
//	session:<refresh token>   hash {id, user_id, expires_at, created_at}
//	session_id:<id>           refresh token
//	user_sessions:<user id>   set of refresh tokens
//
// The first two keys expire together with the session, so DeleteExpired has
// nothing to sweep; dangling set members are pruned on DeleteByUserID.
type redisSessionRepo struct {
	rdb *redis.Client
}

// NewRedisSessionRepo pings the server before returning the repository.
func NewRedisSessionRepo(ctx context.Context, rdb *redis.Client) (SessionRepository, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &redisSessionRepo{rdb: rdb}, nil
}

func sessionKey(token string) string { return "session:" + token }

func sessionIDKey(id string) string { return "session_id:" + id }

func userSessionsKey(userID string) string { return "user_sessions:" + userID }

func (r *redisSessionRepo) Create(ctx context.Context, session *models.Session) error {
	session.ID = uuid.NewString()
	session.CreatedAt = time.Now().UTC()

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("failed to create session: already expired")
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		key := sessionKey(session.RefreshToken)
		pipe.HSet(ctx, key,
			"id", session.ID,
			"user_id", session.UserID,
			"expires_at", session.ExpiresAt.UTC().Format(time.RFC3339Nano),
			"created_at", session.CreatedAt.Format(time.RFC3339Nano),
		)
		pipe.Expire(ctx, key, ttl)
		pipe.Set(ctx, sessionIDKey(session.ID), session.RefreshToken, ttl)
		pipe.SAdd(ctx, userSessionsKey(session.UserID), session.RefreshToken)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *redisSessionRepo) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	val, err := r.rdb.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}
	// HGETALL on a missing key returns an empty map, not redis.Nil.
	if len(val) == 0 {
		return nil, pkg.ErrNotFound
	}

	session := &models.Session{
		ID:           val["id"],
		UserID:       val["user_id"],
		RefreshToken: token,
	}
	if session.ExpiresAt, err = time.Parse(time.RFC3339Nano, val["expires_at"]); err != nil {
		return nil, fmt.Errorf("failed to parse session expiry: %w", err)
	}
	if session.CreatedAt, err = time.Parse(time.RFC3339Nano, val["created_at"]); err != nil {
		return nil, fmt.Errorf("failed to parse session creation time: %w", err)
	}
	return session, nil
}

func (r *redisSessionRepo) DeleteByID(ctx context.Context, id string) error {
	token, err := r.rdb.Get(ctx, sessionIDKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	userID, err := r.rdb.HGet(ctx, sessionKey(token), "user_id").Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(token), sessionIDKey(id))
		if userID != "" {
			pipe.SRem(ctx, userSessionsKey(userID), token)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *redisSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	tokens, err := r.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	for _, token := range tokens {
		id, err := r.rdb.HGet(ctx, sessionKey(token), "id").Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to delete user sessions: %w", err)
		}
		keys := []string{sessionKey(token)}
		if id != "" {
			keys = append(keys, sessionIDKey(id))
		}
		if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete user sessions: %w", err)
		}
	}

	if err := r.rdb.Del(ctx, userSessionsKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis expires session keys on its own.
func (r *redisSessionRepo) DeleteExpired(ctx context.Context) error {
	return nil
}
