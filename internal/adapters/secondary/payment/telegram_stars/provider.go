package telegram_stars

import (
	"context"
	"fmt"
	"strconv"

	"log/slog"

	"github.com/Andrey15243/Pin/internal/adapters/secondary/telegram"
	"github.com/Andrey15243/Pin/internal/ports/payment"
)

// Provider реализация IPaymentProvider поверх Telegram Stars.
// Stars не требуют provider_token - платёж идёт целиком через Bot API.
type Provider struct {
	client *telegram.Client
	log    *slog.Logger
}

func NewProvider(client *telegram.Client, log *slog.Logger) *Provider {
	return &Provider{
		client: client,
		log:    log,
	}
}

// SendInvoice выставляет invoice сообщением в чат пользователя
func (p *Provider) SendInvoice(ctx context.Context, req payment.CreateInvoiceRequest) (*payment.CreateInvoiceResult, error) {
	messageID, err := p.client.SendInvoice(ctx, telegram.SendInvoiceRequest{
		ChatID:      req.ChatID,
		Title:       req.ProductTitle,
		Description: req.Description,
		Payload:     req.Payload,
		Currency:    req.Currency,
		Prices: []telegram.LabeledPrice{
			{Label: req.ProductTitle, Amount: req.Amount},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("stars send invoice failed [chat_id=%d]: %w", req.ChatID, err)
	}

	p.log.Info("stars invoice sent",
		"chat_id", req.ChatID,
		"amount", req.Amount,
		"message_id", messageID,
	)

	return &payment.CreateInvoiceResult{
		ProviderID: strconv.FormatInt(messageID, 10),
	}, nil
}

// CreateInvoiceLink создаёт ссылку на invoice для мини-аппа
func (p *Provider) CreateInvoiceLink(ctx context.Context, req payment.CreateInvoiceRequest) (string, error) {
	link, err := p.client.CreateInvoiceLink(ctx, telegram.CreateInvoiceLinkRequest{
		Title:       req.ProductTitle,
		Description: req.Description,
		Payload:     req.Payload,
		Currency:    req.Currency,
		Prices: []telegram.LabeledPrice{
			{Label: req.ProductTitle, Amount: req.Amount},
		},
	})
	if err != nil {
		return "", fmt.Errorf("stars create invoice link failed: %w", err)
	}

	p.log.Info("stars invoice link created", "amount", req.Amount)
	return link, nil
}

// ConfirmPreCheckout отвечает на pre_checkout_query
func (p *Provider) ConfirmPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage *string) error {
	if err := p.client.AnswerPreCheckoutQuery(ctx, queryID, ok, errorMessage); err != nil {
		return fmt.Errorf("stars confirm pre-checkout failed [query_id=%s]: %w", queryID, err)
	}
	return nil
}
