package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/usualetiquetas/storefront/internal/config"
)

func newSecurityTestHandlers() *Handlers {
	return &Handlers{
		config: &config.Config{BaseURL: "https://loja.example.com"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSameOrigin_AllowsMatchingOrigin(t *testing.T) {
	t.Parallel()

	h := newSecurityTestHandlers()
	req := httptest.NewRequest(http.MethodPost, "https://loja.example.com/api/cart/items", nil)
	req.Header.Set("Origin", "https://loja.example.com")
	rec := httptest.NewRecorder()

	h.RequireSameOrigin(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestRequireSameOrigin_RejectsMissingOriginAndReferer(t *testing.T) {
	t.Parallel()

	h := newSecurityTestHandlers()
	req := httptest.NewRequest(http.MethodPost, "https://loja.example.com/api/cart/items", nil)
	rec := httptest.NewRecorder()

	h.RequireSameOrigin(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireSameOrigin_RejectsCrossOrigin(t *testing.T) {
	t.Parallel()

	h := newSecurityTestHandlers()
	req := httptest.NewRequest(http.MethodPost, "https://loja.example.com/api/cart/items", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rec := httptest.NewRecorder()

	h.RequireSameOrigin(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireSameOrigin_SkipsReadOnlyMethods(t *testing.T) {
	t.Parallel()

	h := newSecurityTestHandlers()
	req := httptest.NewRequest(http.MethodGet, "https://loja.example.com/api/products", nil)
	rec := httptest.NewRecorder()

	h.RequireSameOrigin(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	h := newSecurityTestHandlers()
	req := httptest.NewRequest(http.MethodGet, "https://loja.example.com/", nil)
	rec := httptest.NewRecorder()

	h.SecurityHeaders(okHandler()).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}
