package repository

import (
	"context"

	"github.com/Andrey15243/Pin/internal/domain"
)

// IReferralRepo интерфейс для работы с реферальными связями
type IReferralRepo interface {
	// Create вставляет связь, если её ещё нет (insert-if-absent, не upsert:
	// существующая запись и её флаг rewarded не перезаписываются)
	Create(ctx context.Context, referral *domain.Referral) error
	// MarkRewarded переводит rewarded false→true, возвращает true только для
	// первого перехода
	MarkRewarded(ctx context.Context, inviterTelegramID, inviteeTelegramID int64) (bool, error)
	GetByInvitee(ctx context.Context, inviteeTelegramID int64) (*domain.Referral, error)
	ListByInviter(ctx context.Context, inviterTelegramID int64) ([]domain.Referral, error)
}
