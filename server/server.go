package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/usualetiquetas/storefront/internal/config"
	"github.com/usualetiquetas/storefront/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.MetricsContext)
	r.Use(h.SecurityHeaders)

	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET").Name("health")

	// Payment notifications arrive cross-origin from Mercado Pago, so this
	// route stays outside the same-origin guard.
	r.HandleFunc("/api/webhooks/mercadopago", h.MercadoPagoWebhook).Methods("POST").Name("webhooks.mercadopago")

	// Public storefront API.
	store := r.PathPrefix("/api").Subrouter()
	store.Use(h.RequireSameOrigin)
	store.HandleFunc("/products", h.ListProducts).Methods("GET").Name("products.list")
	store.HandleFunc("/products/{id}", h.GetProduct).Methods("GET").Name("products.get")
	store.HandleFunc("/products/{id}/quote", h.QuoteProduct).Methods("POST").Name("products.quote")
	store.HandleFunc("/price-config", h.GetPriceConfig).Methods("GET").Name("price_config.get")
	store.HandleFunc("/site-images", h.ListSiteImages).Methods("GET").Name("site_images.list")
	store.HandleFunc("/cart", h.GetCart).Methods("GET").Name("cart.get")
	store.HandleFunc("/cart", h.ClearCart).Methods("DELETE").Name("cart.clear")
	store.HandleFunc("/cart/items", h.AddCartItem).Methods("POST").Name("cart.items.add")
	store.HandleFunc("/cart/items", h.UpdateCartItem).Methods("PUT").Name("cart.items.update")
	store.HandleFunc("/cart/items", h.RemoveCartItem).Methods("DELETE").Name("cart.items.remove")
	store.HandleFunc("/checkout", h.StartCheckout).Methods("POST").Name("checkout.start")
	store.HandleFunc("/quotes", h.SubmitQuote).Methods("POST").Name("quotes.submit")

	// Back office. Login is public; everything else needs the bearer token.
	r.HandleFunc("/api/admin/login", h.Login).Methods("POST").Name("admin.login")

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(h.RequireAdmin)
	admin.HandleFunc("/products", h.AdminListProducts).Methods("GET").Name("admin.products.list")
	admin.HandleFunc("/products", h.AdminCreateProduct).Methods("POST").Name("admin.products.create")
	admin.HandleFunc("/products/import", h.AdminImportCatalog).Methods("POST").Name("admin.products.import")
	admin.HandleFunc("/products/{id}", h.AdminUpdateProduct).Methods("PUT").Name("admin.products.update")
	admin.HandleFunc("/products/{id}", h.AdminDeleteProduct).Methods("DELETE").Name("admin.products.delete")
	admin.HandleFunc("/price-config", h.AdminGetPriceConfig).Methods("GET").Name("admin.price_config.get")
	admin.HandleFunc("/price-config", h.AdminSavePriceConfig).Methods("PUT").Name("admin.price_config.save")
	admin.HandleFunc("/site-images", h.AdminListSiteImages).Methods("GET").Name("admin.site_images.list")
	admin.HandleFunc("/site-images/{id}", h.AdminUpdateSiteImage).Methods("PUT").Name("admin.site_images.update")
	admin.HandleFunc("/orders", h.AdminListOrders).Methods("GET").Name("admin.orders.list")
	admin.HandleFunc("/orders/{id}", h.AdminGetOrder).Methods("GET").Name("admin.orders.get")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	return r
}
