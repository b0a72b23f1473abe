package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredentials is returned when login credentials do not match
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService issues and validates the API's bearer tokens
type AuthService struct {
	secret   []byte
	tokenTTL time.Duration
	username string
	password string
}

// NewAuthService creates a new auth service
func NewAuthService(secret string, tokenTTL time.Duration, username, password string) *AuthService {
	return &AuthService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		username: username,
		password: password,
	}
}

// Login checks the credentials and returns a signed token
func (s *AuthService) Login(username, password string) (string, error) {
	if username != s.username || password != s.password {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a token and returns its subject
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("token has no subject: %w", err)
	}
	return sub, nil
}
