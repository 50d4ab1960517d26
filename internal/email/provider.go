// Package email provides the outbound email provider interface.
package email

import (
	"context"
	"fmt"
)

type Provider interface {
	SendEmail(ctx context.Context, email *Email) error
	ValidateAPIKey(ctx context.Context) error
}

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Config struct {
	APIKey string
	From   string
}

func NewProvider(config Config) (Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("email API key is required")
	}
	return NewResendProvider(config.APIKey, config.From), nil
}
