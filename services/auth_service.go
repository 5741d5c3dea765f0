// Package services: services/auth_service.go
package services

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go-meet-hub/logger"
)

// tokenTTL bounds how long an API token stays valid.
const tokenTTL = 12 * time.Hour

// AuthServiceInterface issues and validates the bearer tokens the /api
// mutation routes require.
type AuthServiceInterface interface {
	IssueToken(meetingID string) (string, error)
	ValidateToken(token string) (string, error)
}

// AuthService signs meeting-scoped HS256 tokens.
type AuthService struct {
	secret []byte
}

// NewAuthService reads the signing secret from JWT_SECRET, with a fixed
// development fallback.
func NewAuthService() *AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
		logger.Warn.Println("[NewAuthService] JWT_SECRET not set; using development secret")
	}
	return &AuthService{secret: []byte(secret)}
}

// IssueToken returns a signed token whose subject is the meeting id.
func (s *AuthService) IssueToken(meetingID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   meetingID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken checks the signature and expiry and returns the meeting id.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}
