package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winteradda/storefront/models"
	"github.com/winteradda/storefront/pkg"
	"github.com/winteradda/storefront/pkg/ratelimit"
	"github.com/winteradda/storefront/services"
)

type stubAuth struct {
	password     string
	refreshed    string
	loggedOutTok string
	loggedOutBy  string
}

func (s *stubAuth) Register(ctx context.Context, req *models.CreateUserRequest) (*services.AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err)
	}
	return &services.AuthTokens{AccessToken: "access", User: models.User{Username: req.Username}}, nil
}

func (s *stubAuth) Login(ctx context.Context, req *models.LoginRequest) (*services.AuthTokens, error) {
	if req.Password != s.password {
		return nil, pkg.ErrUnauthorized
	}
	return &services.AuthTokens{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *stubAuth) RefreshToken(ctx context.Context, refreshToken string) (*services.AuthTokens, error) {
	s.refreshed = refreshToken
	return &services.AuthTokens{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (s *stubAuth) Logout(ctx context.Context, userID, refreshToken string) error {
	s.loggedOutBy, s.loggedOutTok = userID, refreshToken
	return nil
}

func (s *stubAuth) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return nil, pkg.ErrUnauthorized
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:51234"
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestAuthHandler_LoginRateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	h := NewAuthHandler(&stubAuth{password: "correct-horse"}, limiter)

	for i := 0; i < 2; i++ {
		rec := postJSON(h.Login, `{"email":"a@b.co","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := postJSON(h.Login, `{"email":"a@b.co","password":"correct-horse"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, errorMessage(t, rec), "too many login attempts")
}

func TestAuthHandler_LoginSuccessResetsLimiter(t *testing.T) {
	limiter := ratelimit.NewLoginRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	h := NewAuthHandler(&stubAuth{password: "correct-horse"}, limiter)

	postJSON(h.Login, `{"email":"a@b.co","password":"wrong"}`)
	rec := postJSON(h.Login, `{"email":"a@b.co","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(h.Login, `{"email":"a@b.co","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = postJSON(h.Login, `{"email":"a@b.co","password":"correct-horse"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_Register(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nil)

	rec := postJSON(h.Register, `{"username":"winter_fan","email":"fan@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(h.Register, `{"username":"x","email":"fan@example.com","password":"longenough"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(h.Register, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", errorMessage(t, rec))
}

func TestAuthHandler_RefreshAndLogout(t *testing.T) {
	svc := &stubAuth{}
	h := NewAuthHandler(svc, nil)

	rec := postJSON(h.Refresh, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "refreshToken is required", errorMessage(t, rec))

	rec = postJSON(h.Refresh, `{"refreshToken":"r-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r-1", svc.refreshed)

	rec = postJSON(h.Logout, `{"refreshToken":"r-2"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.loggedOutTok)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", strings.NewReader(`{"refreshToken":"r-2"}`))
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, &models.User{ID: "u7"}))
	rec = httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r-2", svc.loggedOutTok)
	assert.Equal(t, "u7", svc.loggedOutBy)
	assert.JSONEq(t, `{"message":"logged out"}`, rec.Body.String())
}

func TestAuthHandler_LoginWritesTokenAndUser(t *testing.T) {
	h := NewAuthHandler(&stubAuth{password: "correct-horse"}, nil)

	rec := postJSON(h.Login, `{"email":"a@b.co","password":"correct-horse"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "access", body["token"])
	assert.Equal(t, "refresh", body["refreshToken"])
	assert.Contains(t, body, "user")
	assert.NotContains(t, body, "data")
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuth{}, nil)

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user := &models.User{ID: "u1", Username: "winter_fan", Role: models.RoleAdmin}
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))
	rec = httptest.NewRecorder()
	h.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "u1", data["id"])
	assert.Equal(t, "admin", data["role"])
	assert.NotContains(t, data, "passwordHash")
}
