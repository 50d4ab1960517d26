// Package session identifies anonymous storefront visitors so their cart
// survives reloads.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	cookieName = "etiquetas_cart"
	// Cart sessions are long-lived; the cart itself is the only state bound
	// to them.
	ttl = 30 * 24 * time.Hour
)

// Data represents the data stored in a cart session.
type Data struct {
	CartID    string `json:"cart_id"`
	CreatedAt int64  `json:"created_at"`
}

// Manager handles cart session creation, lookup, and the session cookie.
type Manager struct {
	store  Store
	secure bool
}

// Store defines the interface for session storage.
type Store interface {
	Get(ctx context.Context, key string) (*Data, bool)
	Set(ctx context.Context, key string, data *Data, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}

func NewManager(store Store, secure bool) *Manager {
	return &Manager{
		store:  store,
		secure: secure,
	}
}

func (m *Manager) Close() error {
	if m == nil || m.store == nil {
		return nil
	}
	return m.store.Close()
}

// EnsureSession returns the visitor's cart session, creating one and setting
// the cookie when the request carries none.
func (m *Manager) EnsureSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Data, error) {
	if data, err := m.GetSession(ctx, r); err == nil {
		return data, nil
	}

	sessionID := uuid.NewString()
	data := &Data{
		CartID:    uuid.NewString(),
		CreatedAt: time.Now().Unix(),
	}
	m.store.Set(ctx, sessionID, data, ttl)

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return data, nil
}

// GetSession retrieves the cart session from the request cookie.
func (m *Manager) GetSession(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil, fmt.Errorf("no cart session cookie: %w", err)
	}

	if ctx == nil {
		ctx = r.Context()
	}

	data, ok := m.store.Get(ctx, cookie.Value)
	if !ok {
		return nil, fmt.Errorf("cart session not found or expired")
	}

	if time.Now().Unix()-data.CreatedAt > int64(ttl.Seconds()) {
		m.store.Delete(ctx, cookie.Value)
		return nil, fmt.Errorf("cart session expired")
	}

	return data, nil
}

// DestroySession removes the session and clears the cookie.
func (m *Manager) DestroySession(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(cookieName)
	if ctx == nil {
		ctx = r.Context()
	}
	if err == nil {
		m.store.Delete(ctx, cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
