package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuoteStore struct {
	pool *pgxpool.Pool
}

func NewQuoteStore(pool *pgxpool.Pool) *QuoteStore {
	return &QuoteStore{pool: pool}
}

func (s *QuoteStore) Create(ctx context.Context, quote *QuoteRequest) error {
	query := `
		INSERT INTO quotes (name, email, phone, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	var createdAt pgtype.Timestamptz
	err := s.pool.QueryRow(ctx, query,
		quote.Name, quote.Email, quote.Phone, quote.Message,
	).Scan(&quote.ID, &createdAt)
	if err != nil {
		return err
	}
	quote.CreatedAt = createdAt.Time
	return nil
}

func (s *QuoteStore) List(ctx context.Context, limit int) ([]*QuoteRequest, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, message, created_at
		FROM quotes ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*QuoteRequest
	for rows.Next() {
		var (
			q         QuoteRequest
			phone     pgtype.Text
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &phone, &q.Message, &createdAt); err != nil {
			return nil, err
		}
		if phone.Valid {
			q.Phone = phone.String
		}
		q.CreatedAt = createdAt.Time
		quotes = append(quotes, &q)
	}
	return quotes, rows.Err()
}
