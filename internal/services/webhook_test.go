package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/usualetiquetas/storefront/internal/cache"
	"github.com/usualetiquetas/storefront/internal/db"
	"github.com/usualetiquetas/storefront/internal/email"
	"github.com/usualetiquetas/storefront/internal/mercadopago"
)

type fakeWebhookOrderStore struct {
	orders      map[uuid.UUID]*db.Order
	updateCalls int
}

func (f *fakeWebhookOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*db.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return order, nil
}

func (f *fakeWebhookOrderStore) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status db.PaymentStatus, paymentID string) error {
	order, ok := f.orders[orderID]
	if !ok {
		return db.ErrNotFound
	}
	f.updateCalls++
	order.PaymentStatus = status
	order.PaymentID = paymentID
	return nil
}

type fakePaymentFetcher struct {
	payment *mercadopago.Payment
	calls   int
}

func (f *fakePaymentFetcher) GetPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	f.calls++
	return f.payment, nil
}

type recordingEmailProvider struct {
	sent []*email.Email
}

func (r *recordingEmailProvider) SendEmail(ctx context.Context, msg *email.Email) error {
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingEmailProvider) ValidateAPIKey(ctx context.Context) error { return nil }

func TestProcessNotificationApproved(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	orders := &fakeWebhookOrderStore{orders: map[uuid.UUID]*db.Order{
		orderID: {
			ID:            orderID,
			OrderNumber:   42,
			TotalAmount:   220.80,
			CustomerEmail: "buyer@example.com",
			PaymentStatus: db.PaymentPending,
			CreatedAt:     time.Now(),
			Items: []db.OrderItem{
				{Name: "Etiqueta Bordada", Size: "10x10", Price: 110.40, Quantity: 2},
			},
		},
	}}
	payments := &fakePaymentFetcher{payment: &mercadopago.Payment{
		ID:                987,
		Status:            "approved",
		ExternalReference: orderID.String(),
	}}
	processed, err := cache.NewMemoryProvider()
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	emails := &recordingEmailProvider{}

	svc := NewPaymentWebhookService(orders, payments, processed, emails, slog.New(slog.DiscardHandler))

	notification := &mercadopago.Notification{Topic: "payment"}
	notification.Data.ID = "987"

	if err := svc.ProcessNotification(context.Background(), notification); err != nil {
		t.Fatalf("ProcessNotification: %v", err)
	}

	order := orders.orders[orderID]
	if order.PaymentStatus != db.PaymentApproved {
		t.Errorf("status = %q, want approved", order.PaymentStatus)
	}
	if order.PaymentID != "987" {
		t.Errorf("payment ID = %q, want 987", order.PaymentID)
	}
	if len(emails.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(emails.sent))
	}
	if emails.sent[0].To != "buyer@example.com" {
		t.Errorf("confirmation sent to %q", emails.sent[0].To)
	}
}

func TestProcessNotificationDuplicate(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	orders := &fakeWebhookOrderStore{orders: map[uuid.UUID]*db.Order{
		orderID: {ID: orderID, PaymentStatus: db.PaymentPending},
	}}
	payments := &fakePaymentFetcher{payment: &mercadopago.Payment{
		ID:                987,
		Status:            "approved",
		ExternalReference: orderID.String(),
	}}
	processed, err := cache.NewMemoryProvider()
	if err != nil {
		t.Fatalf("cache: %v", err)
	}

	svc := NewPaymentWebhookService(orders, payments, processed, nil, slog.New(slog.DiscardHandler))

	notification := &mercadopago.Notification{Topic: "payment"}
	notification.Data.ID = "987"

	for i := 0; i < 3; i++ {
		if err := svc.ProcessNotification(context.Background(), notification); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
	}

	if payments.calls != 1 {
		t.Errorf("payment fetched %d times, want 1", payments.calls)
	}
	if orders.updateCalls != 1 {
		t.Errorf("order updated %d times, want 1", orders.updateCalls)
	}
}

func TestProcessNotificationIgnoresOtherTopics(t *testing.T) {
	t.Parallel()

	payments := &fakePaymentFetcher{}
	svc := NewPaymentWebhookService(&fakeWebhookOrderStore{}, payments, nil, nil, slog.New(slog.DiscardHandler))

	notification := &mercadopago.Notification{Topic: "merchant_order"}
	notification.Data.ID = "555"

	if err := svc.ProcessNotification(context.Background(), notification); err != nil {
		t.Fatalf("ProcessNotification: %v", err)
	}
	if payments.calls != 0 {
		t.Errorf("payment fetched for ignored topic")
	}
}

func TestProcessNotificationUnknownOrder(t *testing.T) {
	t.Parallel()

	payments := &fakePaymentFetcher{payment: &mercadopago.Payment{
		ID:                987,
		Status:            "approved",
		ExternalReference: uuid.NewString(),
	}}
	svc := NewPaymentWebhookService(&fakeWebhookOrderStore{orders: map[uuid.UUID]*db.Order{}}, payments, nil, nil, slog.New(slog.DiscardHandler))

	notification := &mercadopago.Notification{Topic: "payment"}
	notification.Data.ID = "987"

	// Unknown orders are acknowledged so Mercado Pago stops retrying.
	if err := svc.ProcessNotification(context.Background(), notification); err != nil {
		t.Fatalf("ProcessNotification: %v", err)
	}
}

func TestProcessNotificationRejectedNoEmail(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	orders := &fakeWebhookOrderStore{orders: map[uuid.UUID]*db.Order{
		orderID: {ID: orderID, CustomerEmail: "buyer@example.com", PaymentStatus: db.PaymentPending},
	}}
	payments := &fakePaymentFetcher{payment: &mercadopago.Payment{
		ID:                988,
		Status:            "rejected",
		ExternalReference: orderID.String(),
	}}
	emails := &recordingEmailProvider{}

	svc := NewPaymentWebhookService(orders, payments, nil, emails, slog.New(slog.DiscardHandler))

	notification := &mercadopago.Notification{Topic: "payment"}
	notification.Data.ID = "988"

	if err := svc.ProcessNotification(context.Background(), notification); err != nil {
		t.Fatalf("ProcessNotification: %v", err)
	}
	if orders.orders[orderID].PaymentStatus != db.PaymentRejected {
		t.Errorf("status = %q, want rejected", orders.orders[orderID].PaymentStatus)
	}
	if len(emails.sent) != 0 {
		t.Errorf("confirmation email sent for rejected payment")
	}
}
