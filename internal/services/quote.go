package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/usualetiquetas/storefront/internal/db"
	"github.com/usualetiquetas/storefront/internal/email"
	"github.com/usualetiquetas/storefront/internal/logging"
)

type quoteStore interface {
	Create(ctx context.Context, quote *db.QuoteRequest) error
}

// QuoteService records quote requests from the contact form and notifies
// the shop owner by email. The notification is best effort; losing an
// email must never lose the quote.
type QuoteService struct {
	quotes        quoteStore
	emailProvider email.Provider
	notifyEmail   string
	logger        *slog.Logger
}

func NewQuoteService(quotes quoteStore, emailProvider email.Provider, notifyEmail string, logger *slog.Logger) *QuoteService {
	return &QuoteService{
		quotes:        quotes,
		emailProvider: emailProvider,
		notifyEmail:   notifyEmail,
		logger:        logger,
	}
}

func (s *QuoteService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

type SubmitQuoteInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

func (s *QuoteService) SubmitQuote(ctx context.Context, input SubmitQuoteInput) (*db.QuoteRequest, error) {
	name := strings.TrimSpace(input.Name)
	emailAddr := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)

	if name == "" {
		return nil, UserError{Message: "Nome é obrigatório"}
	}
	if emailAddr == "" {
		return nil, UserError{Message: "E-mail é obrigatório"}
	}
	if message == "" {
		return nil, UserError{Message: "Mensagem é obrigatória"}
	}

	quote := &db.QuoteRequest{
		Name:    name,
		Email:   emailAddr,
		Phone:   strings.TrimSpace(input.Phone),
		Message: message,
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, quote)
	return quote, nil
}

func (s *QuoteService) notifyOwner(ctx context.Context, quote *db.QuoteRequest) {
	logger := s.loggerFromContext(ctx)

	if s.emailProvider == nil || s.notifyEmail == "" {
		return
	}

	msg, err := email.RenderQuoteNotification(email.QuoteInfo{
		Name:    quote.Name,
		Email:   quote.Email,
		Phone:   quote.Phone,
		Message: quote.Message,
		Date:    time.Now().Format("02/01/2006 15:04"),
	})
	if err != nil {
		logger.Warn("failed to render quote notification", "error", err, "quote_id", quote.ID)
		return
	}
	msg.To = s.notifyEmail

	if err := s.emailProvider.SendEmail(ctx, msg); err != nil {
		logger.Warn("failed to send quote notification", "error", err, "quote_id", quote.ID)
		return
	}

	logger.Info("quote notification sent", "quote_id", quote.ID)
}
