package handlers

import (
	"net/http"

	"github.com/usualetiquetas/storefront/internal/cart"
	"github.com/usualetiquetas/storefront/internal/pricing"
)

type cartResponse struct {
	Items     []cart.Item `json:"items"`
	Total     float64     `json:"total"`
	UnitCount int         `json:"unit_count"`
}

func (h *Handlers) cartBody(store *cart.Store) cartResponse {
	return cartResponse{
		Items:     store.Items(),
		Total:     pricing.Round2(store.Total()),
		UnitCount: store.UnitCount(),
	}
}

// GetCart returns the visitor's cart.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	store, err := h.cartForRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.cartBody(store))
}

type addItemRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
	ImageURL string  `json:"image_url"`
}

// AddCartItem adds a configured product to the cart. An existing line
// with the same product and size absorbs the quantity.
func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.ID == "" || req.Name == "" {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "item id and name are required"})
		return
	}
	if req.Price < 0 {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "price cannot be negative"})
		return
	}

	store, err := h.cartForRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := store.AddItem(r.Context(), cart.Item{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		Size:     req.Size,
		ImageURL: req.ImageURL,
	}); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, h.cartBody(store))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem sets the quantity of one cart line. Quantities below 1
// are clamped to 1; removal is a separate, explicit call.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, size := cartLineVars(r)

	var req updateQuantityRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	store, err := h.cartForRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := store.UpdateQuantity(r.Context(), id, size, req.Quantity); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.cartBody(store))
}

// RemoveCartItem removes one cart line.
func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, size := cartLineVars(r)

	store, err := h.cartForRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := store.RemoveItem(r.Context(), id, size); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.cartBody(store))
}

// ClearCart empties the cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, err := h.cartForRequest(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := store.Clear(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.cartBody(store))
}

func cartLineVars(r *http.Request) (id, size string) {
	query := r.URL.Query()
	return query.Get("id"), query.Get("size")
}
