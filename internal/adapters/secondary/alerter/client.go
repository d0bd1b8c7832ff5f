package alerter

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/Andrey15243/Pin/internal/adapters/secondary/telegram"
)

// Client отправляет алерты в служебный Telegram чат через отдельного бота
type Client struct {
	tgClient *telegram.Client
	chatID   int64
	enabled  bool
	log      *slog.Logger
}

func NewClient(config *Config, log *slog.Logger) *Client {
	c := &Client{
		chatID:  config.ChatID,
		enabled: config.IsEnabled(),
		log:     log,
	}
	if c.enabled {
		c.tgClient = telegram.NewClient(config.BotToken, log)
	}
	return c
}

// SendAlert отправляет сообщение в алерт-чат.
// Если алертер не сконфигурирован - пишет в лог и не считает это ошибкой.
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if !c.enabled {
		c.log.Warn("alert (alerter disabled)", "message", message)
		return nil
	}

	if err := c.tgClient.SendMessage(ctx, c.chatID, message); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}
