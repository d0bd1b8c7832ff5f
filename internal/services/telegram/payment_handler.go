package telegram

import (
	"context"
	"fmt"

	"github.com/Andrey15243/Pin/internal/domain"
)

// HandlePreCheckoutQuery обрабатывает pre_checkout_query от Telegram.
// Ответ должен уйти быстро: Telegram трактует молчание как отказ.
func (s *Service) HandlePreCheckoutQuery(ctx context.Context, query *domain.PreCheckoutQuery) error {
	if query == nil || query.From == nil {
		s.Log.Error("pre_checkout_query is nil or has no from")
		return fmt.Errorf("invalid pre_checkout_query")
	}

	if s.PaymentUseCase == nil {
		s.Log.Warn("payment use case not configured, rejecting pre_checkout_query",
			"query_id", query.ID,
		)
		return fmt.Errorf("payment use case not configured")
	}

	if err := s.PaymentUseCase.HandlePreCheckoutQuery(ctx, query); err != nil {
		return domain.WrapBusinessError(fmt.Errorf("failed to handle pre_checkout_query: %w", err))
	}

	return nil
}

// HandleSuccessfulPayment обрабатывает successful_payment от Telegram -
// оплата уже состоялась, дальше только начисление
func (s *Service) HandleSuccessfulPayment(ctx context.Context, message *domain.Message) error {
	if message == nil || message.SuccessfulPayment == nil {
		s.Log.Error("message or successful_payment is nil")
		return fmt.Errorf("invalid successful_payment")
	}

	if message.Chat == nil {
		s.Log.Error("successful_payment message has no chat")
		return fmt.Errorf("message has no chat")
	}

	if s.PaymentUseCase == nil {
		s.Log.Error("payment use case not configured, cannot process successful_payment")
		return fmt.Errorf("payment use case not configured")
	}

	if err := s.PaymentUseCase.HandleSuccessfulPayment(ctx, message.Chat.ID, message.SuccessfulPayment); err != nil {
		return domain.WrapBusinessError(fmt.Errorf("failed to handle successful_payment: %w", err))
	}

	s.Log.Info("successful_payment processed",
		"chat_id", message.Chat.ID,
		"amount", message.SuccessfulPayment.TotalAmount,
	)

	return nil
}
