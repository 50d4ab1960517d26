package handlers

import (
	"net/http"

	"github.com/usualetiquetas/storefront/internal/mercadopago"
)

// MercadoPagoWebhook receives payment notifications. Mercado Pago
// retries anything that does not answer 2xx, so parse failures are
// answered 200 to stop retries of garbage, and only processing errors
// worth retrying return 500.
func (h *Handlers) MercadoPagoWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	notification, err := mercadopago.ReadNotification(r)
	if err != nil {
		h.loggerFromContext(r.Context()).Warn("unreadable webhook notification", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.webhookSvc.ProcessNotification(r.Context(), notification); err != nil {
		h.loggerFromContext(r.Context()).Error("webhook processing failed",
			"error", err, "topic", notification.Topic, "event_id", notification.Data.ID)
		http.Error(w, "processing failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
