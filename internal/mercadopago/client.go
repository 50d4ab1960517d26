// Package mercadopago provides Mercado Pago Checkout Pro functionality.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/usualetiquetas/storefront/internal/observability"
)

const DefaultBaseURL = "https://api.mercadopago.com"

// Client talks to the Mercado Pago REST API with a platform access token.
type Client struct {
	httpClient  *http.Client
	accessToken string
	baseURL     string
}

func NewClient(accessToken, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:  observability.NewHTTPClient(30 * time.Second),
		accessToken: accessToken,
		baseURL:     baseURL,
	}
}

// PreferenceItem is a single line of a checkout preference. Title carries
// the product name and size so the payment screen shows what was bought.
type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
	PictureURL string  `json:"picture_url,omitempty"`
}

// PreferenceParams holds the inputs for creating a checkout preference.
type PreferenceParams struct {
	Items             []PreferenceItem
	ExternalReference string
	PayerEmail        string
	SuccessURL        string
	FailureURL        string
	PendingURL        string
	NotificationURL   string
}

// Preference is the created checkout preference. InitPoint is the hosted
// payment URL the buyer is redirected to.
type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type preferencePayer struct {
	Email string `json:"email,omitempty"`
}

type preferenceBackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type preferenceRequest struct {
	Items             []PreferenceItem   `json:"items"`
	Payer             *preferencePayer   `json:"payer,omitempty"`
	BackURLs          preferenceBackURLs `json:"back_urls"`
	AutoReturn        string             `json:"auto_return,omitempty"`
	ExternalReference string             `json:"external_reference"`
	NotificationURL   string             `json:"notification_url,omitempty"`
}

// CreatePreference creates a Checkout Pro preference for an order.
func (c *Client) CreatePreference(ctx context.Context, params PreferenceParams) (*Preference, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	if len(params.Items) == 0 {
		return nil, fmt.Errorf("preference requires at least one item")
	}

	reqBody := preferenceRequest{
		Items: params.Items,
		BackURLs: preferenceBackURLs{
			Success: params.SuccessURL,
			Failure: params.FailureURL,
			Pending: params.PendingURL,
		},
		ExternalReference: params.ExternalReference,
		NotificationURL:   params.NotificationURL,
	}
	if params.PayerEmail != "" {
		reqBody.Payer = &preferencePayer{Email: params.PayerEmail}
	}
	if params.SuccessURL != "" {
		reqBody.AutoReturn = "approved"
	}

	var pref Preference
	if err := c.post(ctx, "/checkout/preferences", reqBody, &pref); err != nil {
		return nil, fmt.Errorf("failed to create preference: %w", err)
	}
	return &pref, nil
}

// Payment is the subset of a Mercado Pago payment the webhook flow needs.
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

// GetPayment fetches a payment by the ID reported in a webhook notification.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}

	var payment Payment
	if err := c.get(ctx, "/v1/payments/"+paymentID, &payment); err != nil {
		return nil, fmt.Errorf("failed to get payment %s: %w", paymentID, err)
	}
	return &payment, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// APIError is a non-2xx response from the Mercado Pago API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago: status %d: %s", e.StatusCode, e.Body)
}
