package storefront

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/winteradda/storefront/models"
)

// NavLink is an account link shown in the site navigation.
type NavLink struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// AuthState is the shopper's login as the browser keeps it: the bearer token
// under TokenKey and the user summary (JSON) under UserKey.
type AuthState struct {
	storage Storage
}

func NewAuthState(storage Storage) *AuthState {
	return &AuthState{storage: storage}
}

// SaveLogin stores the result of a successful login.
func (a *AuthState) SaveLogin(ctx context.Context, token string, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := a.storage.Set(ctx, TokenKey, token); err != nil {
		return err
	}
	return a.storage.Set(ctx, UserKey, string(data))
}

// Token returns the stored bearer token, or "" when logged out.
func (a *AuthState) Token(ctx context.Context) (string, error) {
	token, _, err := a.storage.Get(ctx, TokenKey)
	return token, err
}

// User returns the stored user, or nil when none is stored or it cannot be read.
func (a *AuthState) User(ctx context.Context) (*models.User, error) {
	raw, ok, err := a.storage.Get(ctx, UserKey)
	if err != nil || !ok {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, nil
	}
	return &user, nil
}

// IsAdmin reports whether the stored user has the admin role. The server
// still checks the role on every admin request; this only decides what to show.
func (a *AuthState) IsAdmin(ctx context.Context) (bool, error) {
	user, err := a.User(ctx)
	if err != nil || user == nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// Links lists the account links for the navigation bar.
func (a *AuthState) Links(ctx context.Context) ([]NavLink, error) {
	user, err := a.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return []NavLink{
			{Text: "Login", Href: "login.html"},
			{Text: "Signup", Href: "signup.html"},
		}, nil
	}

	var links []NavLink
	if user.IsAdmin() {
		links = append(links, NavLink{Text: "Admin Panel", Href: "admin.html"})
	}
	links = append(links, NavLink{Text: fmt.Sprintf("Logout (%s)", user.Username), Href: "#"})
	return links, nil
}

// Logout forgets both the token and the user.
func (a *AuthState) Logout(ctx context.Context) error {
	if err := a.storage.Remove(ctx, TokenKey); err != nil {
		return err
	}
	return a.storage.Remove(ctx, UserKey)
}
