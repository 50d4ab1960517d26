package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/usualetiquetas/storefront/internal/cache"
	"github.com/usualetiquetas/storefront/internal/cart"
	"github.com/usualetiquetas/storefront/internal/config"
	"github.com/usualetiquetas/storefront/internal/db"
	"github.com/usualetiquetas/storefront/internal/logging"
	"github.com/usualetiquetas/storefront/internal/pricing"
	"github.com/usualetiquetas/storefront/internal/services"
	"github.com/usualetiquetas/storefront/internal/session"
)

const maxBodyBytes = 1 << 20 // 1 MB

// productStore is the slice of db.ProductStore the storefront handlers read.
type productStore interface {
	List(ctx context.Context) ([]*db.Product, error)
	ListByTypeAndCategory(ctx context.Context, productType, category string) ([]*db.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db.Product, error)
}

// Handlers provides the storefront and back-office HTTP handlers.
type Handlers struct {
	config         *config.Config
	productStore   productStore
	siteImageStore *db.SiteImageStore
	cacheProvider  cache.Provider
	pricingEngine  *pricing.Engine
	cartStores     *cart.Registry
	sessionManager *session.Manager
	authService    *services.AuthService
	adminService   *services.AdminService
	checkoutSvc    *services.CheckoutService
	webhookSvc     *services.PaymentWebhookService
	quoteSvc       *services.QuoteService
	logger         *slog.Logger
}

type Dependencies struct {
	Config         *config.Config
	ProductStore   *db.ProductStore
	SiteImageStore *db.SiteImageStore
	CacheProvider  cache.Provider
	PricingEngine  *pricing.Engine
	CartPersister  cart.Persister
	SessionManager *session.Manager
	AuthService    *services.AuthService
	AdminService   *services.AdminService
	CheckoutSvc    *services.CheckoutService
	WebhookSvc     *services.PaymentWebhookService
	QuoteSvc       *services.QuoteService
	Logger         *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.ProductStore == nil {
		return nil, fmt.Errorf("handlers dependencies: productStore is required")
	}
	if deps.SiteImageStore == nil {
		return nil, fmt.Errorf("handlers dependencies: siteImageStore is required")
	}
	if deps.PricingEngine == nil {
		return nil, fmt.Errorf("handlers dependencies: pricingEngine is required")
	}
	if deps.CartPersister == nil {
		return nil, fmt.Errorf("handlers dependencies: cartPersister is required")
	}
	if deps.SessionManager == nil {
		return nil, fmt.Errorf("handlers dependencies: sessionManager is required")
	}
	if deps.AuthService == nil {
		return nil, fmt.Errorf("handlers dependencies: authService is required")
	}
	if deps.AdminService == nil {
		return nil, fmt.Errorf("handlers dependencies: adminService is required")
	}
	if deps.CheckoutSvc == nil {
		return nil, fmt.Errorf("handlers dependencies: checkoutSvc is required")
	}
	if deps.WebhookSvc == nil {
		return nil, fmt.Errorf("handlers dependencies: webhookSvc is required")
	}
	if deps.QuoteSvc == nil {
		return nil, fmt.Errorf("handlers dependencies: quoteSvc is required")
	}

	cartStores, err := newCartRegistry(deps.CartPersister, logger)
	if err != nil {
		return nil, fmt.Errorf("handlers dependencies: failed to build cart registry: %w", err)
	}

	return &Handlers{
		config:         deps.Config,
		productStore:   deps.ProductStore,
		siteImageStore: deps.SiteImageStore,
		cacheProvider:  deps.CacheProvider,
		pricingEngine:  deps.PricingEngine,
		cartStores:     cartStores,
		sessionManager: deps.SessionManager,
		authService:    deps.AuthService,
		adminService:   deps.AdminService,
		checkoutSvc:    deps.CheckoutSvc,
		webhookSvc:     deps.WebhookSvc,
		quoteSvc:       deps.QuoteSvc,
		logger:         logger,
	}, nil
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func SecureCookiesFromConfig(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" {
		if parsed, err := url.Parse(baseURL); err == nil {
			return strings.EqualFold(parsed.Scheme, "https")
		}
	}

	return cfg.Port == "443" || cfg.Port == "8443"
}

// newCartRegistry builds the per-cart store registry and observes every
// materialized store so mutations are visible in the debug log.
func newCartRegistry(persister cart.Persister, logger *slog.Logger) (*cart.Registry, error) {
	return cart.NewRegistry(persister, logger, func(key string, store *cart.Store) {
		store.Subscribe(func(snapshot cart.Snapshot) {
			logger.Debug("cart updated",
				"key", key,
				"lines", len(snapshot.Items),
				"units", snapshot.UnitCount,
				"total", snapshot.Total,
			)
		})
	})
}

// cartForRequest binds the visitor's session to their persisted cart,
// creating the session on first touch. The registry guarantees all requests
// for one cart share a single live store.
func (h *Handlers) cartForRequest(w http.ResponseWriter, r *http.Request) (*cart.Store, error) {
	sess, err := h.sessionManager.EnsureSession(r.Context(), w, r)
	if err != nil {
		return nil, fmt.Errorf("failed to establish cart session: %w", err)
	}
	return h.cartStores.Store(r.Context(), cart.StateKey(sess.CartID)), nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError maps service errors to HTTP responses. UserError messages
// go to the client verbatim; anything else becomes an opaque 500.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var userErr services.UserError
	switch {
	case errors.As(err, &userErr):
		h.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: userErr.Message})
	case errors.Is(err, db.ErrNotFound):
		h.writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		h.loggerFromContext(r.Context()).Error("request failed", "error", err)
		h.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handlers) decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
