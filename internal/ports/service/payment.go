package service

import (
	"context"

	"github.com/Andrey15243/Pin/internal/domain"
)

// IPaymentService интерфейс платёжного use case для других слоёв
// (команды бота и HTTP-мост мини-аппа)
type IPaymentService interface {
	// CreateInvoice выставляет invoice сообщением в чат пользователя
	CreateInvoice(ctx context.Context, kind domain.ProductKind, subjectTelegramID int64, chatID int64, referrerTelegramID int64) (*domain.Payment, error)
	// CreateInvoiceLink создаёт ссылку на invoice для мини-аппа
	CreateInvoiceLink(ctx context.Context, kind domain.ProductKind, subjectTelegramID int64) (string, error)
}
