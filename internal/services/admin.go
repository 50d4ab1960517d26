package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/usualetiquetas/storefront/internal/catalog"
	"github.com/usualetiquetas/storefront/internal/db"
	"github.com/usualetiquetas/storefront/internal/logging"
	"github.com/usualetiquetas/storefront/internal/models"
	"github.com/usualetiquetas/storefront/internal/pricing"
)

// UserError carries a message safe to show to the admin UI verbatim.
type UserError struct {
	Message string
}

func (e UserError) Error() string {
	return e.Message
}

var ErrAdminServiceUnavailable = errors.New("admin service unavailable")

type adminProductStore interface {
	List(ctx context.Context) ([]*db.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db.Product, error)
	Create(ctx context.Context, product *db.Product) error
	Update(ctx context.Context, product *db.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type adminPriceConfigStore interface {
	PriceConfig(ctx context.Context) (pricing.Config, error)
	Save(ctx context.Context, cfg pricing.Config) error
}

type adminSiteImageStore interface {
	List(ctx context.Context) ([]*db.SiteImage, error)
	GetByID(ctx context.Context, id string) (*db.SiteImage, error)
	Update(ctx context.Context, img *db.SiteImage) error
}

type adminOrderStore interface {
	List(ctx context.Context, limit int) ([]*db.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db.Order, error)
}

type importParser interface {
	Parse(content []byte) (*catalog.ImportFile, error)
}

type importValidator interface {
	Validate(file *catalog.ImportFile) error
}

// AdminService backs the authenticated back office: product CRUD,
// pricing configuration, site images, order review, and bulk catalog
// import from YAML.
type AdminService struct {
	products    adminProductStore
	priceConfig adminPriceConfigStore
	siteImages  adminSiteImageStore
	orders      adminOrderStore
	parser      importParser
	validator   importValidator
	logger      *slog.Logger
}

func NewAdminService(
	products adminProductStore,
	priceConfig adminPriceConfigStore,
	siteImages adminSiteImageStore,
	orders adminOrderStore,
	parser importParser,
	validator importValidator,
	logger *slog.Logger,
) *AdminService {
	if parser == nil {
		parser = catalog.NewParser()
	}
	if validator == nil {
		validator = catalog.NewValidator()
	}

	return &AdminService{
		products:    products,
		priceConfig: priceConfig,
		siteImages:  siteImages,
		orders:      orders,
		parser:      parser,
		validator:   validator,
		logger:      logger,
	}
}

func (s *AdminService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

func (s *AdminService) ListProducts(ctx context.Context) ([]*db.Product, error) {
	if s == nil || s.products == nil {
		return nil, ErrAdminServiceUnavailable
	}
	return s.products.List(ctx)
}

func (s *AdminService) CreateProduct(ctx context.Context, product *db.Product) error {
	if s == nil || s.products == nil {
		return ErrAdminServiceUnavailable
	}
	if err := validateProduct(product); err != nil {
		return err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	s.loggerFromContext(ctx).Info("product created", "product_id", product.ID, "name", product.Name)
	return nil
}

func (s *AdminService) UpdateProduct(ctx context.Context, product *db.Product) error {
	if s == nil || s.products == nil {
		return ErrAdminServiceUnavailable
	}
	if err := validateProduct(product); err != nil {
		return err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return err
	}
	s.loggerFromContext(ctx).Info("product updated", "product_id", product.ID, "name", product.Name)
	return nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.products == nil {
		return ErrAdminServiceUnavailable
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.loggerFromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}

func (s *AdminService) GetPriceConfig(ctx context.Context) (pricing.Config, error) {
	if s == nil || s.priceConfig == nil {
		return pricing.Config{}, ErrAdminServiceUnavailable
	}
	return s.priceConfig.PriceConfig(ctx)
}

// SavePriceConfig replaces the pricing configuration. Multipliers below
// 1.0 would price complex work under the base price, so they are
// rejected here rather than at quote time.
func (s *AdminService) SavePriceConfig(ctx context.Context, cfg pricing.Config) error {
	if s == nil || s.priceConfig == nil {
		return ErrAdminServiceUnavailable
	}
	if !cfg.Valid() {
		return UserError{Message: "Multiplicadores devem ser maiores ou iguais a 1.0"}
	}

	if err := s.priceConfig.Save(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save price config: %w", err)
	}
	s.loggerFromContext(ctx).Info("price config saved",
		"color_ranges", len(cfg.ColorRanges), "varnish_multiplier", cfg.VarnishMultiplier)
	return nil
}

func (s *AdminService) ListSiteImages(ctx context.Context) ([]*db.SiteImage, error) {
	if s == nil || s.siteImages == nil {
		return nil, ErrAdminServiceUnavailable
	}
	return s.siteImages.List(ctx)
}

type UpdateSiteImageInput struct {
	ID          string
	Title       string
	Description string
	ImageURL    string
	BannerText  string
}

func (s *AdminService) UpdateSiteImage(ctx context.Context, input UpdateSiteImageInput) (*db.SiteImage, error) {
	if s == nil || s.siteImages == nil {
		return nil, ErrAdminServiceUnavailable
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, UserError{Message: "URL da imagem é obrigatória"}
	}

	img, err := s.siteImages.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	img.Title = input.Title
	img.Description = input.Description
	img.ImageURL = input.ImageURL
	img.BannerText = input.BannerText
	if err := s.siteImages.Update(ctx, img); err != nil {
		return nil, err
	}

	s.loggerFromContext(ctx).Info("site image updated", "image_id", img.ID, "section", img.Section)
	return img, nil
}

func (s *AdminService) ListOrders(ctx context.Context, limit int) ([]*db.Order, error) {
	if s == nil || s.orders == nil {
		return nil, ErrAdminServiceUnavailable
	}
	return s.orders.List(ctx, limit)
}

func (s *AdminService) GetOrder(ctx context.Context, id uuid.UUID) (*db.Order, error) {
	if s == nil || s.orders == nil {
		return nil, ErrAdminServiceUnavailable
	}
	return s.orders.GetByID(ctx, id)
}

type ImportCatalogResult struct {
	Created int
	Names   []string
}

// ImportCatalog parses a YAML catalog file and creates every product in
// it. The file is validated as a whole before anything is written, so a
// bad entry rejects the entire import.
func (s *AdminService) ImportCatalog(ctx context.Context, content []byte) (ImportCatalogResult, error) {
	if s == nil || s.products == nil {
		return ImportCatalogResult{}, ErrAdminServiceUnavailable
	}

	file, err := s.parser.Parse(content)
	if err != nil {
		return ImportCatalogResult{}, UserError{Message: fmt.Sprintf("Arquivo inválido: %v", err)}
	}
	if err := s.validator.Validate(file); err != nil {
		return ImportCatalogResult{}, UserError{Message: fmt.Sprintf("Catálogo inválido: %v", err)}
	}

	var result ImportCatalogResult
	for i := range file.Products {
		product := file.Products[i].ToModel()
		if err := s.products.Create(ctx, &product); err != nil {
			return result, fmt.Errorf("failed to create product %q: %w", product.Name, err)
		}
		result.Created++
		result.Names = append(result.Names, product.Name)
	}

	s.loggerFromContext(ctx).Info("catalog imported", "products", result.Created)
	return result, nil
}

func validateProduct(product *models.Product) error {
	if product == nil {
		return UserError{Message: "Produto é obrigatório"}
	}
	if strings.TrimSpace(product.Name) == "" {
		return UserError{Message: "Nome do produto é obrigatório"}
	}
	if product.ProductType != models.TypeEtiquetas && product.ProductType != models.TypeFitas {
		return UserError{Message: "Tipo de produto deve ser etiquetas ou fitas"}
	}
	if product.MinQuantity <= 0 {
		return UserError{Message: "Quantidade mínima deve ser positiva"}
	}
	if len(product.Dimensions) == 0 {
		return UserError{Message: "Produto precisa de pelo menos um tamanho"}
	}
	for _, dim := range product.Dimensions {
		if strings.TrimSpace(dim.Size) == "" {
			return UserError{Message: "Tamanho não pode ser vazio"}
		}
		if dim.Price < 0 {
			return UserError{Message: "Preço não pode ser negativo"}
		}
	}
	return nil
}
