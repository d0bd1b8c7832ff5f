package telegram

import (
	"context"
	"fmt"
)

// SendMessage отправляет текстовое сообщение пользователю
func (s *Service) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := s.Client.SendMessage(ctx, chatID, text); err != nil {
		s.Log.Error("failed to send message",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendMessageWithMarkdown отправляет текстовое сообщение с Markdown форматированием
func (s *Service) SendMessageWithMarkdown(ctx context.Context, chatID int64, text string) error {
	if err := s.Client.SendMessageWithMarkdown(ctx, chatID, text); err != nil {
		s.Log.Error("failed to send message with markdown",
			"error", err,
			"chat_id", chatID,
		)
		return fmt.Errorf("failed to send message with markdown: %w", err)
	}
	return nil
}
