package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUnknownPaymentStatus = errors.New("unknown payment status")

type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `id, order_number, items, total_amount, customer_email,
	payment_status, payment_id, preference_id, created_at, paid_at`

func (s *OrderStore) Create(ctx context.Context, order *Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	if order.PaymentStatus == "" {
		order.PaymentStatus = PaymentPending
	}

	query := `
		INSERT INTO orders (items, total_amount, customer_email, payment_status, preference_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_number, created_at
	`
	row := s.pool.QueryRow(ctx, query,
		itemsJSON, order.TotalAmount, order.CustomerEmail,
		string(order.PaymentStatus), order.PreferenceID,
	)

	var createdAt pgtype.Timestamptz
	var orderNumber int32
	if err := row.Scan(&order.ID, &orderNumber, &createdAt); err != nil {
		return err
	}
	order.OrderNumber = int(orderNumber)
	order.CreatedAt = createdAt.Time
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderStore) List(ctx context.Context, limit int) ([]*Order, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdatePreference records the checkout preference created for an order.
func (s *OrderStore) UpdatePreference(ctx context.Context, orderID uuid.UUID, preferenceID string) error {
	cmdTag, err := s.pool.Exec(ctx,
		`UPDATE orders SET preference_id = $1 WHERE id = $2`, preferenceID, orderID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePaymentStatus applies the state reported by the payment provider.
// The paid timestamp is set exactly once, on the transition to approved.
func (s *OrderStore) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status PaymentStatus, paymentID string) error {
	if !isKnownStatus(status) {
		return fmt.Errorf("%w: %s", ErrUnknownPaymentStatus, status)
	}

	query := `
		UPDATE orders
		SET payment_status = $1, payment_id = $2,
		    paid_at = CASE WHEN $1 = 'approved' AND paid_at IS NULL THEN NOW() ELSE paid_at END
		WHERE id = $3
	`
	cmdTag, err := s.pool.Exec(ctx, query, string(status), paymentID, orderID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isKnownStatus(status PaymentStatus) bool {
	switch status {
	case PaymentPending, PaymentApproved, PaymentInProcess,
		PaymentRejected, PaymentRefunded, PaymentCancelled:
		return true
	default:
		return false
	}
}

type orderRowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row orderRowScanner) (*Order, error) {
	var (
		order       Order
		itemsJSON   []byte
		orderNumber int32
		status      string
		paymentID   pgtype.Text
		preference  pgtype.Text
		email       pgtype.Text
		createdAt   pgtype.Timestamptz
		paidAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&order.ID, &orderNumber, &itemsJSON, &order.TotalAmount, &email,
		&status, &paymentID, &preference, &createdAt, &paidAt,
	)
	if err != nil {
		return nil, err
	}

	order.OrderNumber = int(orderNumber)
	order.PaymentStatus = PaymentStatus(status)
	if paymentID.Valid {
		order.PaymentID = paymentID.String
	}
	if preference.Valid {
		order.PreferenceID = preference.String
	}
	if email.Valid {
		order.CustomerEmail = email.String
	}
	order.CreatedAt = createdAt.Time
	if paidAt.Valid {
		order.PaidAt = paidAt.Time
	} else {
		order.PaidAt = time.Time{}
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, fmt.Errorf("corrupt items for order %s: %w", order.ID, err)
		}
	}

	return &order, nil
}
