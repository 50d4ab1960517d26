package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/usualetiquetas/storefront/internal/cache"
	"github.com/usualetiquetas/storefront/internal/db"
	"github.com/usualetiquetas/storefront/internal/email"
	"github.com/usualetiquetas/storefront/internal/logging"
	"github.com/usualetiquetas/storefront/internal/mercadopago"
)

// processedEventTTL bounds how long a notification ID is remembered for
// duplicate suppression. Mercado Pago retries over hours, not weeks.
const processedEventTTL = 72 * time.Hour

type paymentFetcher interface {
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
}

type webhookOrderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*db.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status db.PaymentStatus, paymentID string) error
}

// PaymentWebhookService applies Mercado Pago payment notifications to
// orders. Duplicate notifications are absorbed via the cache provider,
// and a confirmation email goes out on the transition to approved.
type PaymentWebhookService struct {
	orders        webhookOrderStore
	payments      paymentFetcher
	processed     cache.Provider
	emailProvider email.Provider
	logger        *slog.Logger
}

func NewPaymentWebhookService(orders webhookOrderStore, payments paymentFetcher, processed cache.Provider, emailProvider email.Provider, logger *slog.Logger) *PaymentWebhookService {
	return &PaymentWebhookService{
		orders:        orders,
		payments:      payments,
		processed:     processed,
		emailProvider: emailProvider,
		logger:        logger,
	}
}

func (s *PaymentWebhookService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// ProcessNotification handles one webhook delivery. Unknown topics and
// duplicate deliveries are acknowledged without side effects so Mercado
// Pago stops retrying them.
func (s *PaymentWebhookService) ProcessNotification(ctx context.Context, n *mercadopago.Notification) error {
	if s == nil || s.orders == nil || s.payments == nil {
		return fmt.Errorf("payment webhook service unavailable")
	}

	logger := s.loggerFromContext(ctx)

	if n.Topic != mercadopago.TopicPayment {
		logger.Debug("ignoring webhook topic", "topic", n.Topic)
		return nil
	}

	eventKey := cache.PaymentEventKey(n.Topic, n.Data.ID)
	if s.processed != nil {
		if _, err := s.processed.Get(ctx, eventKey); err == nil {
			logger.Info("duplicate payment notification", "payment_id", n.Data.ID)
			return nil
		}
	}

	payment, err := s.payments.GetPayment(ctx, n.Data.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch payment: %w", err)
	}

	orderID, err := uuid.Parse(payment.ExternalReference)
	if err != nil {
		logger.Warn("payment has no usable external reference",
			"payment_id", payment.ID, "external_reference", payment.ExternalReference)
		return nil
	}

	status := db.PaymentStatus(payment.Status)
	err = s.orders.UpdatePaymentStatus(ctx, orderID, status, strconv.FormatInt(payment.ID, 10))
	if errors.Is(err, db.ErrNotFound) {
		logger.Warn("payment references unknown order", "payment_id", payment.ID, "order_id", orderID)
		return nil
	}
	if errors.Is(err, db.ErrUnknownPaymentStatus) {
		logger.Warn("payment has unknown status", "payment_id", payment.ID, "status", payment.Status)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", orderID, err)
	}

	logger.Info("payment status applied",
		"order_id", orderID, "payment_id", payment.ID, "status", payment.Status)

	if status == db.PaymentApproved {
		s.sendConfirmation(ctx, orderID)
	}

	if s.processed != nil {
		if err := s.processed.Set(ctx, eventKey, payment.Status, processedEventTTL); err != nil {
			logger.Warn("failed to record processed notification", "error", err, "key", eventKey)
		}
	}

	return nil
}

// sendConfirmation emails the customer about the approved payment. Email
// delivery failures are logged and never fail the webhook.
func (s *PaymentWebhookService) sendConfirmation(ctx context.Context, orderID uuid.UUID) {
	logger := s.loggerFromContext(ctx)

	if s.emailProvider == nil {
		return
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		logger.Warn("failed to load order for confirmation email", "error", err, "order_id", orderID)
		return
	}
	if order.CustomerEmail == "" {
		return
	}

	lines := make([]email.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, email.OrderLine{
			Name:     item.Name,
			Size:     item.Size,
			Quantity: item.Quantity,
			Price:    formatBRL(item.Price),
		})
	}

	msg, err := email.RenderOrderConfirmation(email.OrderInfo{
		OrderNumber: strconv.Itoa(order.OrderNumber),
		Total:       formatBRL(order.TotalAmount),
		Date:        order.CreatedAt.Format("02/01/2006"),
		Items:       lines,
	})
	if err != nil {
		logger.Warn("failed to render confirmation email", "error", err, "order_id", orderID)
		return
	}
	msg.To = order.CustomerEmail

	if err := s.emailProvider.SendEmail(ctx, msg); err != nil {
		logger.Warn("failed to send confirmation email", "error", err, "order_id", orderID)
		return
	}

	logger.Info("order confirmation sent", "order_id", orderID, "order_number", order.OrderNumber)
}

func formatBRL(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
