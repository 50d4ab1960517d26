package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/usualetiquetas/storefront/internal/db"
	"github.com/usualetiquetas/storefront/internal/models"
	"github.com/usualetiquetas/storefront/internal/pricing"
	"github.com/usualetiquetas/storefront/internal/services"
)

type productRequest struct {
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Category         string             `json:"category"`
	ProductType      string             `json:"product_type"`
	Dimensions       []models.Dimension `json:"dimensions"`
	MinQuantity      int                `json:"min_quantity"`
	ImageURL         string             `json:"image_url"`
	HasVarnishOption bool               `json:"has_varnish_option"`
	ColorRange       string             `json:"color_range"`
}

func (req productRequest) toModel() *db.Product {
	return &db.Product{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		ProductType:      req.ProductType,
		Dimensions:       req.Dimensions,
		MinQuantity:      req.MinQuantity,
		ImageURL:         req.ImageURL,
		HasVarnishOption: req.HasVarnishOption,
		ColorRange:       req.ColorRange,
	}
}

// AdminListProducts lists the catalog for the back office.
func (h *Handlers) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.adminService.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if products == nil {
		products = []*db.Product{}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"products": products})
}

// AdminCreateProduct creates a catalog product.
func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	product := req.toModel()
	if err := h.adminService.CreateProduct(r.Context(), product); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, product)
}

// AdminUpdateProduct replaces a catalog product.
func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	var req productRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	product := req.toModel()
	product.ID = id
	if err := h.adminService.UpdateProduct(r.Context(), product); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, product)
}

// AdminDeleteProduct removes a catalog product.
func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	if err := h.adminService.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminGetPriceConfig returns the stored multipliers.
func (h *Handlers) AdminGetPriceConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.adminService.GetPriceConfig(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, cfg)
}

// AdminSavePriceConfig replaces the stored multipliers.
func (h *Handlers) AdminSavePriceConfig(w http.ResponseWriter, r *http.Request) {
	var cfg pricing.Config
	if err := h.decodeJSON(r, &cfg); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.adminService.SavePriceConfig(r.Context(), cfg); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, cfg)
}

// AdminListSiteImages lists the managed landing-page images.
func (h *Handlers) AdminListSiteImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.adminService.ListSiteImages(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if images == nil {
		images = []*db.SiteImage{}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"images": images})
}

type siteImageRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	BannerText  string `json:"banner_text"`
}

// AdminUpdateSiteImage replaces one managed image.
func (h *Handlers) AdminUpdateSiteImage(w http.ResponseWriter, r *http.Request) {
	var req siteImageRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	img, err := h.adminService.UpdateSiteImage(r.Context(), services.UpdateSiteImageInput{
		ID:          mux.Vars(r)["id"],
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		BannerText:  req.BannerText,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, img)
}

// AdminListOrders lists recent orders, newest first.
func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, err := h.adminService.ListOrders(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*db.Order{}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{"orders": orders})
}

// AdminGetOrder returns one order with its frozen items.
func (h *Handlers) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	order, err := h.adminService.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, order)
}

// AdminImportCatalog bulk-creates products from an uploaded YAML file.
func (h *Handlers) AdminImportCatalog(w http.ResponseWriter, r *http.Request) {
	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "failed to read upload"})
		return
	}

	result, err := h.adminService.ImportCatalog(r.Context(), content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"created": result.Created,
		"names":   result.Names,
	})
}
