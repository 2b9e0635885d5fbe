package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"oraclequiz/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService mints and validates the per-user session token used to
// correlate chat and quiz activity. A token is issued once and reused for
// the lifetime of the profile.
type TokenService struct {
	jwtSecret []byte
}

// NewTokenService creates a new token service.
func NewTokenService(secret string) *TokenService {
	return &TokenService{jwtSecret: []byte(secret)}
}

// Issue signs a new session token for the user.
func (s *TokenService) Issue(userID string) (string, error) {
	claims := &model.SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
			// No expiry: the token lives as long as the profile does.
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// Validate parses a session token and returns its claims.
func (s *TokenService) Validate(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
