package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/usualetiquetas/storefront/internal/config"
	"github.com/usualetiquetas/storefront/internal/services"
)

func newAuthTestHandlers(t *testing.T) *Handlers {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo-forte"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	cfg := &config.Config{
		AdminEmail:        "admin@usualetiquetas.com.br",
		AdminPasswordHash: string(hash),
		JWTSecret:         "0123456789abcdef0123456789abcdef",
	}
	authSvc, err := services.NewAuthService(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}

	return &Handlers{
		config:      cfg,
		authService: authSvc,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestLogin_ValidCredentials(t *testing.T) {
	t.Parallel()

	h := newAuthTestHandlers(t)
	body := `{"email":"admin@usualetiquetas.com.br","password":"segredo-forte"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
}

func TestLogin_RejectsBadPassword(t *testing.T) {
	t.Parallel()

	h := newAuthTestHandlers(t)
	body := `{"email":"admin@usualetiquetas.com.br","password":"errada"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	h := newAuthTestHandlers(t)

	loginBody := `{"email":"admin@usualetiquetas.com.br","password":"segredo-forte"}`
	loginReq := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(loginBody))
	loginRec := httptest.NewRecorder()
	h.Login(loginRec, loginReq)

	var login loginResponse
	if err := json.Unmarshal(loginRec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	protected := h.RequireAdmin(okHandler())

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + login.Token, wantStatus: http.StatusOK},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", authHeader: "Token abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tc.wantStatus)
			}
		})
	}
}
