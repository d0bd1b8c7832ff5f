package boost

import (
	"context"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
)

const boostStatusCacheTTL = 5 * time.Minute

// GetBoostStatus возвращает статус Boost для моста мини-аппа.
// Сначала смотрим в кеш: мини-апп опрашивает статус часто, БД дёргать
// на каждый запрос незачем. Для неизвестного пользователя - false, не ошибка.
func (s *Service) GetBoostStatus(ctx context.Context, telegramID int64) (bool, error) {
	key := domain.BoostStatusCacheKey(telegramID)

	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, key)
		if err == nil {
			return cached == "true", nil
		}
	}

	boost, err := s.UserRepo.GetBoostStatus(ctx, telegramID)
	if err != nil {
		return false, err
	}

	if s.Cache != nil {
		value := "false"
		if boost {
			value = "true"
		}
		if err := s.Cache.Set(ctx, key, value, boostStatusCacheTTL); err != nil {
			s.Log.Warn("failed to cache boost status",
				"error", err,
				"telegram_user_id", telegramID,
			)
		}
	}

	return boost, nil
}
