package catalog

// Package catalog provides product import file parsing.

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ImportFile is the YAML document an administrator uploads to create or
// replace catalog products in bulk.
type ImportFile struct {
	Products []ProductEntry `yaml:"products"`
}

type ProductEntry struct {
	Name             string           `yaml:"name"`
	Description      string           `yaml:"description"`
	Category         string           `yaml:"category"`
	ProductType      string           `yaml:"product_type"`
	MinQuantity      int              `yaml:"min_quantity"`
	ImageURL         string           `yaml:"image_url"`
	HasVarnishOption bool             `yaml:"has_varnish_option"`
	ColorRange       string           `yaml:"color_range"`
	Dimensions       []DimensionEntry `yaml:"dimensions"`
}

type DimensionEntry struct {
	Size  string  `yaml:"size"`
	Price float64 `yaml:"price"`
	Stock int     `yaml:"stock"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(content []byte) (*ImportFile, error) {
	var file ImportFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &file, nil
}

func (p *Parser) ParseFromString(content string) (*ImportFile, error) {
	return p.Parse([]byte(content))
}
