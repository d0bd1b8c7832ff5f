package usecase

import (
	"context"

	"github.com/Andrey15243/Pin/internal/domain"
)

// IPaymentUseCase интерфейс обработчика платёжных событий от Telegram
type IPaymentUseCase interface {
	HandlePreCheckoutQuery(ctx context.Context, query *domain.PreCheckoutQuery) error
	HandleSuccessfulPayment(ctx context.Context, chatID int64, payment *domain.SuccessfulPayment) error
}
