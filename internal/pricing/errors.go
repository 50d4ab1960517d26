package pricing

import "errors"

var (
	ErrUnknownSize     = errors.New("product does not offer the requested size")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)
