package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/usualetiquetas/storefront/internal/db"
)

// ListProducts serves the public catalog, optionally filtered by product
// type (etiquetas, fitas) and category.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	productType := r.URL.Query().Get("type")
	category := r.URL.Query().Get("category")

	var (
		products []*db.Product
		err      error
	)
	if productType != "" || category != "" {
		products, err = h.productStore.ListByTypeAndCategory(r.Context(), productType, category)
	} else {
		products, err = h.productStore.List(r.Context())
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if products == nil {
		products = []*db.Product{}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"products": products})
}

// GetProduct serves one product by ID.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	product, err := h.productStore.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, product)
}

// ListSiteImages serves the managed images for the landing page sections.
func (h *Handlers) ListSiteImages(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")

	var (
		images []*db.SiteImage
		err    error
	)
	if section != "" {
		images, err = h.siteImageStore.ListBySection(r.Context(), section)
	} else {
		images, err = h.siteImageStore.List(r.Context())
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if images == nil {
		images = []*db.SiteImage{}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"images": images})
}
