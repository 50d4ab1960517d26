package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/usualetiquetas/storefront/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Login authenticates the back-office admin and returns a bearer token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.loggerFromContext(r.Context()).Warn("failed admin login attempt", "email", req.Email)
		h.writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	})
}

// RequireAdmin guards back-office routes with the bearer token issued by
// Login.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			h.writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		if _, err := h.authService.ValidateToken(token); err != nil {
			h.writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
