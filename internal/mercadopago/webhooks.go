package mercadopago

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// TopicPayment is the only notification topic the storefront acts on.
const TopicPayment = "payment"

// Notification is a Mercado Pago webhook notification body. Mercado Pago
// also repeats the topic and ID as query parameters on older formats, so
// ReadNotification falls back to those when the body carries neither.
type Notification struct {
	Topic string `json:"type"`
	Data  struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ReadNotification parses a webhook request into a Notification.
func ReadNotification(r *http.Request) (*Notification, error) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	var n Notification
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, fmt.Errorf("failed to parse notification: %w", err)
		}
	}

	query := r.URL.Query()
	if n.Topic == "" {
		n.Topic = query.Get("topic")
		if n.Topic == "" {
			n.Topic = query.Get("type")
		}
	}
	if n.Data.ID == "" {
		n.Data.ID = query.Get("data.id")
		if n.Data.ID == "" {
			n.Data.ID = query.Get("id")
		}
	}

	if n.Topic == "" || n.Data.ID == "" {
		return nil, fmt.Errorf("notification missing topic or id")
	}
	return &n, nil
}
