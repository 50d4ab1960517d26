package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/usualetiquetas/storefront/internal/config"
)

var (
	ErrAuthUnavailable    = errors.New("auth service unavailable")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const tokenLifetime = 24 * time.Hour

// AuthService authenticates the single back-office admin and issues
// bearer tokens for the admin API.
type AuthService struct {
	adminEmail        string
	adminPasswordHash string
	jwtSecret         []byte
	now               func() time.Time
	logger            *slog.Logger
}

func NewAuthService(cfg *config.Config, logger *slog.Logger) (*AuthService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("auth service config is required")
	}
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf("auth service admin credentials are required")
	}

	return &AuthService{
		adminEmail:        cfg.AdminEmail,
		adminPasswordHash: cfg.AdminPasswordHash,
		jwtSecret:         []byte(cfg.JWTSecret),
		now:               time.Now,
		logger:            logger,
	}, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Login checks the credentials against the configured admin account.
// Email comparison is case-insensitive; the password is checked against
// the stored bcrypt hash.
func (s *AuthService) Login(email, password string) (LoginResult, error) {
	if s == nil {
		return LoginResult{}, ErrAuthUnavailable
	}

	if !strings.EqualFold(strings.TrimSpace(email), s.adminEmail) {
		// Still run the hash comparison so both failure paths cost the same.
		_ = bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password))
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	expiresAt := s.now().Add(tokenLifetime)
	claims := jwt.RegisteredClaims{
		Subject:   s.adminEmail,
		IssuedAt:  jwt.NewNumericDate(s.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken verifies a bearer token and returns the admin email it
// was issued for.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	if s == nil {
		return "", ErrAuthUnavailable
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if !strings.EqualFold(claims.Subject, s.adminEmail) {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
