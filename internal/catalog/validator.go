package catalog

// Package catalog provides import file validation.

import (
	"fmt"
	"strings"

	"github.com/usualetiquetas/storefront/internal/models"
	"github.com/usualetiquetas/storefront/internal/pricing"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(file *ImportFile) error {
	if len(file.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}

	names := make(map[string]bool)
	for i, product := range file.Products {
		if err := v.validateProduct(&product); err != nil {
			return fmt.Errorf("product %d validation failed: %w", i, err)
		}

		key := strings.ToLower(strings.TrimSpace(product.Name))
		if names[key] {
			return fmt.Errorf("duplicate product name: %s", product.Name)
		}
		names[key] = true
	}

	return nil
}

func (v *Validator) validateProduct(product *ProductEntry) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if product.ProductType != models.TypeEtiquetas && product.ProductType != models.TypeFitas {
		return fmt.Errorf("product type must be %q or %q", models.TypeEtiquetas, models.TypeFitas)
	}

	if product.MinQuantity <= 0 {
		return fmt.Errorf("minimum quantity must be positive")
	}

	if !isColorRange(product.ColorRange) {
		return fmt.Errorf("unknown color range: %s", product.ColorRange)
	}

	if len(product.Dimensions) == 0 {
		return fmt.Errorf("at least one dimension is required")
	}

	sizes := make(map[string]bool)
	for i, dim := range product.Dimensions {
		if err := v.validateDimension(&dim); err != nil {
			return fmt.Errorf("dimension %d validation failed: %w", i, err)
		}

		if sizes[dim.Size] {
			return fmt.Errorf("duplicate dimension size: %s", dim.Size)
		}
		sizes[dim.Size] = true
	}

	return nil
}

func (v *Validator) validateDimension(dim *DimensionEntry) error {
	if strings.TrimSpace(dim.Size) == "" {
		return fmt.Errorf("dimension size is required")
	}

	if dim.Price < 0 {
		return fmt.Errorf("dimension price must be zero or positive")
	}

	if dim.Stock < 0 {
		return fmt.Errorf("dimension stock must be zero or positive")
	}

	return nil
}

func isColorRange(key string) bool {
	switch key {
	case pricing.ColorRange0to2, pricing.ColorRange2to4, pricing.ColorRange4to6, pricing.ColorRange6to8:
		return true
	default:
		return false
	}
}

// ToModel converts a validated import entry into a catalog product.
func (e ProductEntry) ToModel() models.Product {
	dims := make([]models.Dimension, 0, len(e.Dimensions))
	for _, d := range e.Dimensions {
		dims = append(dims, models.Dimension{Size: d.Size, Price: d.Price, Stock: d.Stock})
	}

	return models.Product{
		Name:             e.Name,
		Description:      e.Description,
		Category:         e.Category,
		ProductType:      e.ProductType,
		MinQuantity:      e.MinQuantity,
		ImageURL:         e.ImageURL,
		HasVarnishOption: e.HasVarnishOption,
		ColorRange:       e.ColorRange,
		Dimensions:       dims,
	}
}
