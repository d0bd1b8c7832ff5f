package repository

import (
	"context"

	"github.com/Andrey15243/Pin/internal/domain"
)

// IUserRepo интерфейс для работы с пользователями.
// Все мутации счётчиков - атомарные UPDATE по ключу tg_id, никакого
// read-modify-write на стороне приложения.
type IUserRepo interface {
	Create(ctx context.Context, user *domain.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	UpdateLastSeen(ctx context.Context, telegramID int64) error

	// SetBoost включает sticky-флаг Boost (никогда не снимает)
	SetBoost(ctx context.Context, telegramID int64) error
	// GetBoostStatus возвращает false для неизвестного пользователя, не ошибку
	GetBoostStatus(ctx context.Context, telegramID int64) (bool, error)
	// IncrementDonate атомарно увеличивает счётчик донатов на 1
	IncrementDonate(ctx context.Context, telegramID int64) error
	// IncrementBonusStars атомарно начисляет бонусные звёзды рефереру
	IncrementBonusStars(ctx context.Context, telegramID int64, amount int) error
	// ApplyEnergyBoost одним UPDATE инкрементит energy_boost и сбрасывает
	// clicker_energy в максимум
	ApplyEnergyBoost(ctx context.Context, telegramID int64) error
}
