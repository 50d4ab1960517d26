package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductType partitions the catalog into the two storefront surfaces.
const (
	TypeEtiquetas = "etiquetas"
	TypeFitas     = "fitas"
)

// Dimension is one size offering of a product. Price is the batch price at
// the product's minimum quantity, not a per-unit price.
type Dimension struct {
	Size  string  `json:"size"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type Product struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	ProductType      string      `json:"product_type"`
	Dimensions       []Dimension `json:"dimensions"`
	MinQuantity      int         `json:"min_quantity"`
	ImageURL         string      `json:"image_url"`
	HasVarnishOption bool        `json:"has_varnish_option"`
	ColorRange       string      `json:"color_range"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Dimension returns the dimension with the given size label, or nil.
func (p *Product) Dimension(size string) *Dimension {
	for i := range p.Dimensions {
		if p.Dimensions[i].Size == size {
			return &p.Dimensions[i]
		}
	}
	return nil
}

// DefaultDimension is the pre-selected size on the product detail view.
func (p *Product) DefaultDimension() *Dimension {
	if len(p.Dimensions) == 0 {
		return nil
	}
	return &p.Dimensions[0]
}
