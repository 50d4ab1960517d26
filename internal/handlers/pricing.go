package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/usualetiquetas/storefront/internal/pricing"
)

type quoteRequest struct {
	Size       string `json:"size"`
	Quantity   int    `json:"quantity"`
	ColorRange string `json:"color_range"`
	Varnish    bool   `json:"varnish"`
}

// QuoteProduct prices one product configuration. Size, quantity, color
// range, and varnish are customer choices; an omitted color range defaults
// to the product's own tier.
func (h *Handlers) QuoteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	var req quoteRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	product, err := h.productStore.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	colorRange := strings.TrimSpace(req.ColorRange)
	if colorRange == "" {
		colorRange = product.ColorRange
	}

	quote, err := h.pricingEngine.QuoteSelection(r.Context(), product, pricing.Selection{
		Size:       req.Size,
		Quantity:   req.Quantity,
		ColorRange: colorRange,
		Varnish:    req.Varnish,
	})
	switch {
	case errors.Is(err, pricing.ErrUnknownSize):
		h.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "unknown size for this product"})
		return
	case errors.Is(err, pricing.ErrInvalidQuantity):
		h.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: "quantity must be positive"})
		return
	case err != nil:
		h.writeError(w, r, err)
		return
	}

	quote.Total = pricing.Round2(quote.Total)
	quote.BasePrice = pricing.Round2(quote.BasePrice)
	h.writeJSON(w, r, http.StatusOK, quote)
}

// GetPriceConfig exposes the active multipliers so the storefront can
// preview prices client-side before asking for an authoritative quote.
func (h *Handlers) GetPriceConfig(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.pricingEngine.Config(r.Context()))
}
