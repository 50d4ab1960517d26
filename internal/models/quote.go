package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteRequest is a contact-form inquiry. It is stored and forwarded to the
// shop owner by email; there is no further workflow on it.
type QuoteRequest struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
