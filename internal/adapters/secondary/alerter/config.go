package alerter

type Config struct {
	BotToken string `envconfig:"ALERTER_BOT_TOKEN"`
	ChatID   int64  `envconfig:"ALERTER_CHAT_ID"`
}

// IsEnabled алертер опционален - без токена и чата алерты просто логируются
func (c *Config) IsEnabled() bool {
	return c.BotToken != "" && c.ChatID != 0
}
