package models

import "time"

// Session is a refresh token record. Access tokens are short-lived; the
// refresh token lets a client obtain new ones until it expires or logs out.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}
