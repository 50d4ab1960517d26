package db

import "github.com/usualetiquetas/storefront/internal/models"

type Product = models.Product
type Dimension = models.Dimension
type Order = models.Order
type OrderItem = models.OrderItem
type PaymentStatus = models.PaymentStatus
type SiteImage = models.SiteImage
type QuoteRequest = models.QuoteRequest

const (
	PaymentPending   = models.PaymentPending
	PaymentApproved  = models.PaymentApproved
	PaymentInProcess = models.PaymentInProcess
	PaymentRejected  = models.PaymentRejected
	PaymentRefunded  = models.PaymentRefunded
	PaymentCancelled = models.PaymentCancelled
)
