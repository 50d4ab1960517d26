package handlers

import (
	"net/http"

	"github.com/usualetiquetas/storefront/internal/services"
)

type quoteFormRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SubmitQuote records a quote request from the contact form.
func (h *Handlers) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteFormRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	quote, err := h.quoteSvc.SubmitQuote(r.Context(), services.SubmitQuoteInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, map[string]string{"id": quote.ID.String()})
}
