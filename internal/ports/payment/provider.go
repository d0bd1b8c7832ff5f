package payment

import (
	"context"
)

// IPaymentProvider интерфейс платёжного провайдера (Telegram Stars).
// Use case зависит только от этого интерфейса, не зная деталей реализации.
type IPaymentProvider interface {
	// SendInvoice выставляет invoice сообщением в чат, возвращает provider id
	SendInvoice(ctx context.Context, req CreateInvoiceRequest) (*CreateInvoiceResult, error)
	// CreateInvoiceLink создаёт ссылку на invoice для мини-аппа
	CreateInvoiceLink(ctx context.Context, req CreateInvoiceRequest) (string, error)
	// ConfirmPreCheckout отвечает на pre_checkout_query: ok=true подтверждает,
	// ok=false отклоняет с сообщением об ошибке
	ConfirmPreCheckout(ctx context.Context, queryID string, ok bool, errorMessage *string) error
}

// CreateInvoiceRequest запрос на создание invoice
type CreateInvoiceRequest struct {
	ChatID       int64 // нужен только для SendInvoice
	ProductTitle string
	Description  string
	Amount       int64  // количество звёзд
	Currency     string // "XTR"
	Payload      string // сериализованный PaymentIntent, ≤128 байт
}

// CreateInvoiceResult результат отправки invoice
type CreateInvoiceResult struct {
	ProviderID string // message_id отправленного invoice
}
