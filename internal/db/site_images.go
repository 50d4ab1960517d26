package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usualetiquetas/storefront/internal/models"
)

type SiteImageStore struct {
	pool *pgxpool.Pool
}

func NewSiteImageStore(pool *pgxpool.Pool) *SiteImageStore {
	return &SiteImageStore{pool: pool}
}

const siteImageColumns = `id, title, description, section, image_url, banner_text, updated_at`

func (s *SiteImageStore) List(ctx context.Context) ([]*SiteImage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+siteImageColumns+` FROM site_images ORDER BY section, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*SiteImage
	for rows.Next() {
		img, err := scanSiteImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *SiteImageStore) ListBySection(ctx context.Context, section string) ([]*SiteImage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+siteImageColumns+` FROM site_images WHERE section = $1 ORDER BY id`, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*SiteImage
	for rows.Next() {
		img, err := scanSiteImage(rows)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *SiteImageStore) GetByID(ctx context.Context, id string) (*SiteImage, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+siteImageColumns+` FROM site_images WHERE id = $1`, id)

	img, err := scanSiteImage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *SiteImageStore) Update(ctx context.Context, img *SiteImage) error {
	query := `
		UPDATE site_images
		SET title = $1, description = $2, image_url = $3, banner_text = $4, updated_at = NOW()
		WHERE id = $5
	`
	cmdTag, err := s.pool.Exec(ctx, query,
		img.Title, img.Description, img.ImageURL, img.BannerText, img.ID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts any of the given images that do not exist yet. Existing
// rows are left untouched so admin edits survive restarts.
func (s *SiteImageStore) Seed(ctx context.Context, images []*SiteImage) error {
	query := `
		INSERT INTO site_images (id, title, description, section, image_url, banner_text)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	for _, img := range images {
		if _, err := s.pool.Exec(ctx, query,
			img.ID, img.Title, img.Description, img.Section, img.ImageURL, img.BannerText); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSiteImages is the fixed set of managed slots the landing page
// renders. Seeded once; admins edit content, never the set itself.
func DefaultSiteImages() []*SiteImage {
	return []*SiteImage{
		{ID: "banner-1", Title: "Etiquetas personalizadas", Section: models.SectionBanner, ImageURL: "/images/banner-1.jpg", BannerText: "Etiquetas e fitas personalizadas para a sua marca"},
		{ID: "banner-2", Title: "Fitas personalizadas", Section: models.SectionBanner, ImageURL: "/images/banner-2.jpg", BannerText: "Qualidade de quem entende de acabamento"},
		{ID: "solution-etiquetas", Title: "Etiquetas", Description: "Bordadas, tecidas e em couro", Section: models.SectionSolution, ImageURL: "/images/solution-etiquetas.jpg"},
		{ID: "solution-fitas", Title: "Fitas", Description: "Cetim e gorgurão personalizados", Section: models.SectionSolution, ImageURL: "/images/solution-fitas.jpg"},
		{ID: "logo", Title: "Logo", Section: models.SectionLogo, ImageURL: "/images/logo.png"},
	}
}

func scanSiteImage(row orderRowScanner) (*SiteImage, error) {
	var (
		img        SiteImage
		desc       pgtype.Text
		bannerText pgtype.Text
		updatedAt  pgtype.Timestamptz
	)
	err := row.Scan(&img.ID, &img.Title, &desc, &img.Section, &img.ImageURL, &bannerText, &updatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		img.Description = desc.String
	}
	if bannerText.Valid {
		img.BannerText = bannerText.String
	}
	img.UpdatedAt = updatedAt.Time
	return &img, nil
}
