package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/usualetiquetas/storefront/internal/cart"
	"github.com/usualetiquetas/storefront/internal/db"
	"github.com/usualetiquetas/storefront/internal/logging"
	"github.com/usualetiquetas/storefront/internal/mercadopago"
)

var (
	ErrCheckoutEmptyCart   = errors.New("cart is empty")
	ErrCheckoutUnavailable = errors.New("checkout service unavailable")
)

type checkoutOrderStore interface {
	Create(ctx context.Context, order *db.Order) error
	UpdatePreference(ctx context.Context, orderID uuid.UUID, preferenceID string) error
}

type preferenceCreator interface {
	CreatePreference(ctx context.Context, params mercadopago.PreferenceParams) (*mercadopago.Preference, error)
}

// CheckoutService turns a cart snapshot into a pending order and a
// Mercado Pago checkout preference. The cart itself is untouched here;
// it is only cleared after the payment webhook confirms approval.
type CheckoutService struct {
	orders   checkoutOrderStore
	payments preferenceCreator
	baseURL  string
	currency string
	logger   *slog.Logger
}

func NewCheckoutService(orders checkoutOrderStore, payments preferenceCreator, baseURL, currency string, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		payments: payments,
		baseURL:  strings.TrimRight(baseURL, "/"),
		currency: currency,
		logger:   logger,
	}
}

func (s *CheckoutService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

type StartCheckoutInput struct {
	Snapshot      cart.Snapshot
	CustomerEmail string
}

type StartCheckoutResult struct {
	OrderID   uuid.UUID
	InitPoint string
}

// StartCheckout records a pending order for the given cart snapshot and
// creates the hosted payment preference for it. The returned InitPoint
// is where the buyer finishes paying.
func (s *CheckoutService) StartCheckout(ctx context.Context, input StartCheckoutInput) (StartCheckoutResult, error) {
	if s == nil || s.orders == nil || s.payments == nil {
		return StartCheckoutResult{}, ErrCheckoutUnavailable
	}
	if len(input.Snapshot.Items) == 0 {
		return StartCheckoutResult{}, ErrCheckoutEmptyCart
	}

	order := &db.Order{
		Items:         orderItemsFromCart(input.Snapshot.Items),
		TotalAmount:   input.Snapshot.Total,
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		PaymentStatus: db.PaymentPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return StartCheckoutResult{}, fmt.Errorf("failed to create order: %w", err)
	}

	pref, err := s.payments.CreatePreference(ctx, mercadopago.PreferenceParams{
		Items:             preferenceItemsFromCart(input.Snapshot.Items, s.currency),
		ExternalReference: order.ID.String(),
		PayerEmail:        order.CustomerEmail,
		SuccessURL:        s.baseURL + "/checkout/success",
		FailureURL:        s.baseURL + "/checkout/failure",
		PendingURL:        s.baseURL + "/checkout/pending",
		NotificationURL:   s.baseURL + "/api/webhooks/mercadopago",
	})
	if err != nil {
		s.loggerFromContext(ctx).Error("failed to create payment preference",
			"error", err, "order_id", order.ID)
		return StartCheckoutResult{}, fmt.Errorf("failed to create payment preference: %w", err)
	}

	if err := s.orders.UpdatePreference(ctx, order.ID, pref.ID); err != nil {
		s.loggerFromContext(ctx).Error("failed to record preference on order",
			"error", err, "order_id", order.ID, "preference_id", pref.ID)
	}

	s.loggerFromContext(ctx).Info("checkout started",
		"order_id", order.ID, "order_number", order.OrderNumber,
		"total", order.TotalAmount, "items", len(order.Items))

	return StartCheckoutResult{OrderID: order.ID, InitPoint: pref.InitPoint}, nil
}

func orderItemsFromCart(items []cart.Item) []db.OrderItem {
	out := make([]db.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, db.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Size:      item.Size,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}
	return out
}

func preferenceItemsFromCart(items []cart.Item, currency string) []mercadopago.PreferenceItem {
	out := make([]mercadopago.PreferenceItem, 0, len(items))
	for _, item := range items {
		out = append(out, mercadopago.PreferenceItem{
			Title:      fmt.Sprintf("%s - %s", item.Name, item.Size),
			Quantity:   item.Quantity,
			UnitPrice:  item.Price,
			CurrencyID: currency,
			PictureURL: item.ImageURL,
		})
	}
	return out
}
