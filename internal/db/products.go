package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `id, name, description, category, product_type, dimensions,
	min_quantity, image_url, has_varnish_option, color_range, created_at, updated_at`

func (s *ProductStore) List(ctx context.Context) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListByTypeAndCategory filters the storefront catalog; an empty category
// returns every product of the type.
func (s *ProductStore) ListByTypeAndCategory(ctx context.Context, productType, category string) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_type = $1`
	args := []any{productType}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (s *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	row := s.pool.QueryRow(ctx, query, id)

	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductStore) Create(ctx context.Context, product *Product) error {
	dimensionsJSON, err := json.Marshal(product.Dimensions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (name, description, category, product_type, dimensions,
			min_quantity, image_url, has_varnish_option, color_range)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	row := s.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Category, product.ProductType,
		dimensionsJSON, product.MinQuantity, product.ImageURL,
		product.HasVarnishOption, product.ColorRange,
	)

	var createdAt, updatedAt pgtype.Timestamptz
	if err := row.Scan(&product.ID, &createdAt, &updatedAt); err != nil {
		return err
	}
	product.CreatedAt = createdAt.Time
	product.UpdatedAt = updatedAt.Time
	return nil
}

func (s *ProductStore) Update(ctx context.Context, product *Product) error {
	dimensionsJSON, err := json.Marshal(product.Dimensions)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, category = $3, product_type = $4,
			dimensions = $5, min_quantity = $6, image_url = $7,
			has_varnish_option = $8, color_range = $9, updated_at = NOW()
		WHERE id = $10
	`
	cmdTag, err := s.pool.Exec(ctx, query,
		product.Name, product.Description, product.Category, product.ProductType,
		dimensionsJSON, product.MinQuantity, product.ImageURL,
		product.HasVarnishOption, product.ColorRange, product.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type productRowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row productRowScanner) (*Product, error) {
	var (
		product        Product
		dimensionsJSON []byte
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)

	err := row.Scan(
		&product.ID, &product.Name, &product.Description, &product.Category,
		&product.ProductType, &dimensionsJSON, &product.MinQuantity,
		&product.ImageURL, &product.HasVarnishOption, &product.ColorRange,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(dimensionsJSON) > 0 {
		if err := json.Unmarshal(dimensionsJSON, &product.Dimensions); err != nil {
			return nil, fmt.Errorf("corrupt dimensions for product %s: %w", product.ID, err)
		}
	}
	product.CreatedAt = createdAt.Time
	product.UpdatedAt = updatedAt.Time

	return &product, nil
}

func scanProducts(rows pgx.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
