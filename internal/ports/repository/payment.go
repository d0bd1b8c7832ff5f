package repository

import (
	"context"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/google/uuid"
)

// IPaymentRepo интерфейс для работы с платежами
type IPaymentRepo interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	// MarkSucceeded переводит платёж pending→succeeded одним условным UPDATE.
	// Возвращает true только для первого перехода - это и есть защита от
	// повторной доставки successful_payment.
	MarkSucceeded(ctx context.Context, id uuid.UUID, providerChargeID string) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	// GetPendingOlderThan возвращает зависшие pending-платежи для ручной сверки
	GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Payment, error)
	UpdateProviderID(ctx context.Context, id uuid.UUID, providerID string) error
}
