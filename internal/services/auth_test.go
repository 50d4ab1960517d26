package services

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/usualetiquetas/storefront/internal/config"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	svc, err := NewAuthService(&config.Config{
		AdminEmail:        "admin@usualetiquetas.com.br",
		AdminPasswordHash: string(hash),
		JWTSecret:         "0123456789abcdef0123456789abcdef",
	}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "admin@usualetiquetas.com.br", password: "correct-horse"},
		{name: "email is case insensitive", email: "Admin@UsualEtiquetas.com.br", password: "correct-horse"},
		{name: "wrong password", email: "admin@usualetiquetas.com.br", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "other@example.com", password: "correct-horse", wantErr: ErrInvalidCredentials},
		{name: "empty credentials", wantErr: ErrInvalidCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result, err := svc.Login(tc.email, tc.password)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if result.Token == "" {
				t.Error("Login() returned empty token")
			}
			if !result.ExpiresAt.After(time.Now()) {
				t.Errorf("token expires in the past: %v", result.ExpiresAt)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	result, err := svc.Login("admin@usualetiquetas.com.br", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	email, err := svc.ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if email != "admin@usualetiquetas.com.br" {
		t.Errorf("email = %q, want admin email", email)
	}

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token error = %v, want ErrInvalidToken", err)
	}

	other := newTestAuthService(t)
	other.jwtSecret = []byte("ffffffffffffffffffffffffffffffff")
	if _, err := other.ValidateToken(result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong-secret token error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	result, err := svc.Login("admin@usualetiquetas.com.br", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(tokenLifetime + time.Minute) }
	if _, err := svc.ValidateToken(result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}
