package handlers

import (
	"errors"
	"net/http"

	"github.com/usualetiquetas/storefront/internal/services"
)

type checkoutRequest struct {
	Email string `json:"email"`
}

type checkoutResponse struct {
	OrderID   string `json:"order_id"`
	InitPoint string `json:"init_point"`
}

// StartCheckout creates a pending order from the visitor's cart and
// returns the Mercado Pago redirect URL. The cart is kept as is; it is
// only cleared once the payment webhook reports approval, so an
// abandoned payment screen costs the customer nothing.
func (h *Handlers) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	store, err := h.cartForRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.checkoutSvc.StartCheckout(r.Context(), services.StartCheckoutInput{
		Snapshot:      store.Snapshot(),
		CustomerEmail: req.Email,
	})
	if errors.Is(err, services.ErrCheckoutEmptyCart) {
		h.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "cart is empty"})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, checkoutResponse{
		OrderID:   result.OrderID.String(),
		InitPoint: result.InitPoint,
	})
}
