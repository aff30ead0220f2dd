package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the access token payload. Role is a snapshot taken at
// issue time; the admin guard re-reads the user so a demotion applies at once.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}
