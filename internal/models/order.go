package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus mirrors the states Mercado Pago reports for a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentApproved  PaymentStatus = "approved"
	PaymentInProcess PaymentStatus = "in_process"
	PaymentRejected  PaymentStatus = "rejected"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// OrderItem is a cart line frozen into an order at checkout time.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

type Order struct {
	ID            uuid.UUID     `json:"id"`
	OrderNumber   int           `json:"order_number"`
	Items         []OrderItem   `json:"items"`
	TotalAmount   float64       `json:"total_amount"`
	CustomerEmail string        `json:"customer_email"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentID     string        `json:"payment_id"`
	PreferenceID  string        `json:"preference_id"`
	CreatedAt     time.Time     `json:"created_at"`
	PaidAt        time.Time     `json:"paid_at"`
}

func (o *Order) IsPaid() bool {
	return o != nil && o.PaymentStatus == PaymentApproved
}
