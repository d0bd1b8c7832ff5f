package boost

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
)

// GetOrCreateUser получает пользователя по Telegram ID или создаёт нового
func (s *Service) GetOrCreateUser(ctx context.Context, tgUser *domain.TelegramUser, chat *domain.Chat) (*domain.User, error) {
	user, err := s.UserRepo.GetByTelegramID(ctx, tgUser.ID)
	if err == nil && user != nil {
		// Пользователь найден, обновляем данные если нужно
		needsUpdate := false
		if user.FirstName != tgUser.FirstName {
			user.FirstName = tgUser.FirstName
			needsUpdate = true
		}
		if (tgUser.LastName != nil && (user.LastName == nil || *user.LastName != *tgUser.LastName)) ||
			(tgUser.LastName == nil && user.LastName != nil) {
			user.LastName = tgUser.LastName
			needsUpdate = true
		}
		if (tgUser.Username != nil && (user.Username == nil || *user.Username != *tgUser.Username)) ||
			(tgUser.Username == nil && user.Username != nil) {
			user.Username = tgUser.Username
			needsUpdate = true
		}
		if chat != nil && user.TelegramChatID != chat.ID {
			user.TelegramChatID = chat.ID
			needsUpdate = true
		}

		if needsUpdate {
			if err := s.UserRepo.UpdateProfile(ctx, user); err != nil {
				s.Log.Warn("failed to update user profile",
					"error", err,
					"telegram_user_id", user.TelegramID,
				)
			}
		}

		if err := s.UserRepo.UpdateLastSeen(ctx, user.TelegramID); err != nil {
			s.Log.Warn("failed to update last seen",
				"error", err,
				"telegram_user_id", user.TelegramID,
			)
		}

		return user, nil
	}

	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Пользователь не найден, создаём нового
	now := time.Now()
	user = &domain.User{
		TelegramID:    tgUser.ID,
		FirstName:     tgUser.FirstName,
		LastName:      tgUser.LastName,
		Username:      tgUser.Username,
		ClickerEnergy: domain.MaxClickerEnergy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if chat != nil {
		user.TelegramChatID = chat.ID
	}

	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.Log.Info("user created", "telegram_user_id", tgUser.ID)

	return user, nil
}
