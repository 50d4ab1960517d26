package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lmittmann/tint"

	"github.com/usualetiquetas/storefront/internal/cache"
	"github.com/usualetiquetas/storefront/internal/cart"
	"github.com/usualetiquetas/storefront/internal/config"
	"github.com/usualetiquetas/storefront/internal/db"
	"github.com/usualetiquetas/storefront/internal/email"
	"github.com/usualetiquetas/storefront/internal/handlers"
	"github.com/usualetiquetas/storefront/internal/logging"
	"github.com/usualetiquetas/storefront/internal/mercadopago"
	"github.com/usualetiquetas/storefront/internal/pricing"
	"github.com/usualetiquetas/storefront/internal/services"
	"github.com/usualetiquetas/storefront/internal/session"
)

type App struct {
	Config         *config.Config
	Logger         *slog.Logger
	DB             *pgxpool.Pool
	CacheProvider  cache.Provider
	CartPersister  cart.Persister
	SessionManager *session.Manager
	Handlers       *handlers.Handlers

	sentryEnabled bool
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.1,
		}); err != nil {
			return nil, fmt.Errorf("failed to initialize sentry: %w", err)
		}
		sentryEnabled = true
	}

	logger := newLogger(cfg, sentryEnabled)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	database, err := db.Connect(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	sessionStore, err := session.NewStore(startupCtx, session.Config{
		Provider:              cfg.SessionStoreProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	sessionManager := session.NewManager(sessionStore, handlers.SecureCookiesFromConfig(cfg))

	cartPersister, err := cart.NewPersister(cart.Config{
		Provider:              cfg.CartStoreProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize cart store: %w", err)
	}

	productStore := db.NewProductStore(database)
	orderStore := db.NewOrderStore(database)
	priceConfigStore := db.NewPriceConfigStore(database)
	siteImageStore := db.NewSiteImageStore(database)
	quoteStore := db.NewQuoteStore(database)

	if err := siteImageStore.Seed(startupCtx, db.DefaultSiteImages()); err != nil {
		logger.Warn("failed to seed site images", "error", err)
	}

	var emailProvider email.Provider
	if cfg.ResendAPIKey != "" {
		emailProvider, err = email.NewProvider(email.Config{
			APIKey: cfg.ResendAPIKey,
			From:   cfg.EmailFrom,
		})
		if err != nil {
			closeCartPersister(logger, cartPersister)
			closeSessionManager(logger, sessionManager)
			closeCacheProvider(logger, cacheProvider)
			database.Close()
			return nil, fmt.Errorf("failed to initialize email provider: %w", err)
		}
		if err := emailProvider.ValidateAPIKey(startupCtx); err != nil {
			logger.Warn("email provider API key validation failed", "error", err)
		}
	}

	mpClient := mercadopago.NewClient(cfg.MercadoPagoAccessToken, cfg.MercadoPagoBaseURL)
	pricingEngine := pricing.NewEngine(priceConfigStore, logger.With("component", "pricing"))

	authService, err := services.NewAuthService(cfg, logger.With("component", "auth_service"))
	if err != nil {
		closeCartPersister(logger, cartPersister)
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	adminService := services.NewAdminService(
		productStore,
		priceConfigStore,
		siteImageStore,
		orderStore,
		nil,
		nil,
		logger.With("component", "admin_service"),
	)
	checkoutService := services.NewCheckoutService(
		orderStore,
		mpClient,
		cfg.BaseURL,
		cfg.Currency,
		logger.With("component", "checkout_service"),
	)
	webhookService := services.NewPaymentWebhookService(
		orderStore,
		mpClient,
		cacheProvider,
		emailProvider,
		logger.With("component", "webhook_service"),
	)
	quoteService := services.NewQuoteService(
		quoteStore,
		emailProvider,
		cfg.QuoteNotifyEmail,
		logger.With("component", "quote_service"),
	)

	h, err := handlers.New(handlers.Dependencies{
		Config:         cfg,
		ProductStore:   productStore,
		SiteImageStore: siteImageStore,
		CacheProvider:  cacheProvider,
		PricingEngine:  pricingEngine,
		CartPersister:  cartPersister,
		SessionManager: sessionManager,
		AuthService:    authService,
		AdminService:   adminService,
		CheckoutSvc:    checkoutService,
		WebhookSvc:     webhookService,
		QuoteSvc:       quoteService,
		Logger:         logger,
	})
	if err != nil {
		closeCartPersister(logger, cartPersister)
		closeSessionManager(logger, sessionManager)
		closeCacheProvider(logger, cacheProvider)
		database.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             database,
		CacheProvider:  cacheProvider,
		CartPersister:  cartPersister,
		SessionManager: sessionManager,
		Handlers:       h,
		sentryEnabled:  sentryEnabled,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CartPersister != nil {
		closeCartPersister(a.Logger, a.CartPersister)
	}
	if a.SessionManager != nil {
		closeSessionManager(a.Logger, a.SessionManager)
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

func newLogger(cfg *config.Config, sentryEnabled bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: cfg.LogLevel})
	}

	if sentryEnabled {
		// Warnings and errors additionally flow to Sentry.
		sentryHandler := sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		}.NewSentryHandler(context.Background())
		handler = logging.MultiHandler(handler, sentryHandler)
	}

	return slog.New(handler)
}

func closeSessionManager(logger *slog.Logger, manager *session.Manager) {
	if manager == nil {
		return
	}
	if err := manager.Close(); err != nil && logger != nil {
		logger.Warn("failed to close session manager", "error", err)
	}
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}

func closeCartPersister(logger *slog.Logger, persister cart.Persister) {
	if persister == nil {
		return
	}
	if err := persister.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cart store", "error", err)
	}
}
