package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/Andrey15243/Pin/internal/domain"
)

// HandleUpdate основной метод для обработки всех типов обновлений
func (s *Service) HandleUpdate(ctx context.Context, update *domain.Update) error {
	if update == nil {
		return fmt.Errorf("update is nil")
	}

	// pre_checkout_query имеет жёсткий дедлайн ответа, обрабатываем первым
	if update.PreCheckoutQuery != nil {
		return s.HandlePreCheckoutQuery(ctx, update.PreCheckoutQuery)
	}

	if update.Message != nil {
		return s.HandleMessage(ctx, update.Message, update.UpdateID)
	}

	return nil
}

// HandleMessage обрабатывает входящее сообщение - роутинг в usecase
func (s *Service) HandleMessage(ctx context.Context, message *domain.Message, updateID int64) error {
	if message == nil {
		return fmt.Errorf("message is nil")
	}

	if message.From == nil || message.From.IsBot {
		s.Log.Debug("ignoring message from bot", "update_id", updateID)
		return nil
	}

	if message.Chat != nil && message.Chat.Type != "private" {
		s.Log.Warn("ignoring message from group/chat",
			"update_id", updateID,
			"chat_type", message.Chat.Type,
			"chat_id", message.Chat.ID,
		)
		return nil
	}

	if message.SuccessfulPayment != nil {
		return s.HandleSuccessfulPayment(ctx, message)
	}

	// Получаем или создаём пользователя через use case
	user, err := s.BotService.GetOrCreateUser(ctx, message.From, message.Chat)
	if err != nil {
		s.Log.Error("failed to get or create user",
			"error", err,
			"telegram_user_id", message.From.ID,
			"update_id", updateID,
		)
		return fmt.Errorf("failed to get or create user: %w", err)
	}

	if message.Text != nil {
		return s.routeTextMessage(ctx, user, *message.Text, updateID)
	}

	return nil
}

// routeTextMessage роутит в команду/текст
func (s *Service) routeTextMessage(ctx context.Context, user *domain.User, text string, updateID int64) error {
	if IsCommand(text) {
		command, args := ParseCommand(text)
		return s.BotService.HandleCommand(ctx, user, command, args, updateID)
	}

	return s.BotService.HandleText(ctx, user, text, updateID)
}

// ParseCommand выделяет имя команды и аргументы.
// "/start ref2002" → ("start", "ref2002"), "/terms@pin_bot" → ("terms", "")
func ParseCommand(text string) (string, string) {
	text = strings.TrimPrefix(text, "/")

	args := ""
	if idx := strings.Index(text, " "); idx != -1 {
		args = strings.TrimSpace(text[idx+1:])
		text = text[:idx]
	}

	if idx := strings.Index(text, "@"); idx != -1 {
		text = text[:idx]
	}

	return text, args
}

func IsCommand(text string) bool {
	return len(text) > 0 && text[0] == '/'
}
