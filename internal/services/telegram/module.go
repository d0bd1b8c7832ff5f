package telegram

import (
	"log/slog"

	TgClient "github.com/Andrey15243/Pin/internal/adapters/secondary/telegram"
	"github.com/Andrey15243/Pin/internal/ports/service"
	"github.com/Andrey15243/Pin/internal/ports/usecase"
)

// Service роутит обновления Telegram в use case-ы и отправляет сообщения
type Service struct {
	Client         *TgClient.Client
	BotService     service.IBotService
	PaymentUseCase usecase.IPaymentUseCase
	Log            *slog.Logger
}

func New(
	client *TgClient.Client,
	botService service.IBotService,
	paymentUseCase usecase.IPaymentUseCase,
	log *slog.Logger,
) *Service {
	return &Service{
		Client:         client,
		BotService:     botService,
		PaymentUseCase: paymentUseCase,
		Log:            log,
	}
}

// SetBotService устанавливает botService (для случаев когда нужно обновить после создания)
func (s *Service) SetBotService(botService service.IBotService) {
	s.BotService = botService
}

// SetPaymentUseCase устанавливает paymentUseCase после создания
// (use case сам зависит от сервиса как от отправителя сообщений)
func (s *Service) SetPaymentUseCase(paymentUseCase usecase.IPaymentUseCase) {
	s.PaymentUseCase = paymentUseCase
}
