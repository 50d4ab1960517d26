package mercadopago

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreatePreference(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody preferenceRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/checkout/preferences" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Preference{
			ID:        "pref-123",
			InitPoint: "https://www.mercadopago.com.br/checkout/v1/redirect?pref_id=pref-123",
		})
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL)
	client.httpClient = server.Client()

	pref, err := client.CreatePreference(context.Background(), PreferenceParams{
		Items: []PreferenceItem{
			{Title: "Etiqueta Bordada - 10x10", Quantity: 2, UnitPrice: 110.40, CurrencyID: "BRL"},
		},
		ExternalReference: "order-1",
		PayerEmail:        "buyer@example.com",
		SuccessURL:        "https://loja.example.com/checkout/success",
		NotificationURL:   "https://loja.example.com/api/webhooks/mercadopago",
	})
	if err != nil {
		t.Fatalf("CreatePreference: %v", err)
	}

	if pref.ID != "pref-123" {
		t.Errorf("preference ID = %q, want pref-123", pref.ID)
	}
	if !strings.Contains(pref.InitPoint, "pref_id=pref-123") {
		t.Errorf("unexpected init point %q", pref.InitPoint)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotBody.ExternalReference != "order-1" {
		t.Errorf("external_reference = %q", gotBody.ExternalReference)
	}
	if gotBody.Payer == nil || gotBody.Payer.Email != "buyer@example.com" {
		t.Errorf("payer = %+v, want buyer email", gotBody.Payer)
	}
	if gotBody.AutoReturn != "approved" {
		t.Errorf("auto_return = %q, want approved", gotBody.AutoReturn)
	}
}

func TestCreatePreferenceRequiresItems(t *testing.T) {
	t.Parallel()

	client := NewClient("test-token", "http://localhost:0")
	if _, err := client.CreatePreference(context.Background(), PreferenceParams{}); err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestCreatePreferenceAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid access token"}`))
	}))
	defer server.Close()

	client := NewClient("bad-token", server.URL)
	client.httpClient = server.Client()

	_, err := client.CreatePreference(context.Background(), PreferenceParams{
		Items: []PreferenceItem{{Title: "Etiqueta", Quantity: 1, UnitPrice: 80, CurrencyID: "BRL"}},
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
}

func TestGetPayment(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/987" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": 987,
			"status": "approved",
			"external_reference": "order-1",
			"transaction_amount": 220.80,
			"payer": {"email": "buyer@example.com"}
		}`))
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL)
	client.httpClient = server.Client()

	payment, err := client.GetPayment(context.Background(), "987")
	if err != nil {
		t.Fatalf("GetPayment: %v", err)
	}
	if payment.Status != "approved" {
		t.Errorf("status = %q, want approved", payment.Status)
	}
	if payment.ExternalReference != "order-1" {
		t.Errorf("external_reference = %q", payment.ExternalReference)
	}
	if payment.Payer.Email != "buyer@example.com" {
		t.Errorf("payer email = %q", payment.Payer.Email)
	}
}

func TestReadNotification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		target    string
		body      string
		wantTopic string
		wantID    string
		wantErr   bool
	}{
		{
			name:      "json body",
			target:    "/api/webhooks/mercadopago",
			body:      `{"type":"payment","data":{"id":"987"}}`,
			wantTopic: "payment",
			wantID:    "987",
		},
		{
			name:      "query parameters",
			target:    "/api/webhooks/mercadopago?topic=payment&id=987",
			body:      "",
			wantTopic: "payment",
			wantID:    "987",
		},
		{
			name:      "data.id query fallback",
			target:    "/api/webhooks/mercadopago?type=payment&data.id=987",
			body:      "{}",
			wantTopic: "payment",
			wantID:    "987",
		},
		{
			name:    "missing id",
			target:  "/api/webhooks/mercadopago",
			body:    `{"type":"payment"}`,
			wantErr: true,
		},
		{
			name:    "malformed body",
			target:  "/api/webhooks/mercadopago",
			body:    `{not-json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.body))
			n, err := ReadNotification(req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadNotification: %v", err)
			}
			if n.Topic != tt.wantTopic {
				t.Errorf("topic = %q, want %q", n.Topic, tt.wantTopic)
			}
			if n.Data.ID != tt.wantID {
				t.Errorf("id = %q, want %q", n.Data.ID, tt.wantID)
			}
		})
	}
}
