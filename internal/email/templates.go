// Package email provides email templates.
package email

import (
	"bytes"
	"fmt"
	"text/template"
)

// QuoteInfo fills the quote-request notification sent to the shop owner.
type QuoteInfo struct {
	Name    string
	Email   string
	Phone   string
	Message string
	Date    string
}

// OrderInfo fills the order confirmation sent to the customer.
type OrderInfo struct {
	OrderNumber string
	Total       string
	Date        string
	Items       []OrderLine
}

type OrderLine struct {
	Name     string
	Size     string
	Quantity int
	Price    string
}

const quoteNotificationText = `Novo pedido de orçamento recebido em {{.Date}}.

Nome: {{.Name}}
E-mail: {{.Email}}
Telefone: {{.Phone}}

Mensagem:
{{.Message}}
`

const orderConfirmationText = `Recebemos o seu pedido #{{.OrderNumber}} em {{.Date}}.

Itens:
{{range .Items}}  - {{.Name}} - {{.Size}} x{{.Quantity}}: R$ {{.Price}}
{{end}}
Total: R$ {{.Total}}

O pagamento foi aprovado. Em breve entraremos em contato sobre a produção.
`

var (
	quoteTemplate = template.Must(template.New("quote_notification").Parse(quoteNotificationText))
	orderTemplate = template.Must(template.New("order_confirmation").Parse(orderConfirmationText))
)

// RenderQuoteNotification renders the owner-facing quote notification email.
func RenderQuoteNotification(info QuoteInfo) (*Email, error) {
	var body bytes.Buffer
	if err := quoteTemplate.Execute(&body, info); err != nil {
		return nil, fmt.Errorf("failed to render quote notification: %w", err)
	}

	return &Email{
		Subject: fmt.Sprintf("Novo orçamento - %s", info.Name),
		Text:    body.String(),
	}, nil
}

// RenderOrderConfirmation renders the customer-facing order confirmation.
func RenderOrderConfirmation(info OrderInfo) (*Email, error) {
	var body bytes.Buffer
	if err := orderTemplate.Execute(&body, info); err != nil {
		return nil, fmt.Errorf("failed to render order confirmation: %w", err)
	}

	return &Email{
		Subject: fmt.Sprintf("Pedido confirmado - #%s", info.OrderNumber),
		Text:    body.String(),
	}, nil
}
