package model

import "github.com/golang-jwt/jwt/v5"

// Identity is the signed-in user object written by the external sign-in
// flow. The gateway only reads it; Sub is preferred as the user id, falling
// back to Email.
type Identity struct {
	Sub   string `json:"sub,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// SessionClaims are the claims carried by the per-user session token.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}
