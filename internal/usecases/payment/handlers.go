package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/Andrey15243/Pin/internal/usecases/boost/texts"
)

// Кеш статуса Boost живёт недолго - мини-апп опрашивает его часто,
// а платёж инвалидирует ключ сразу после начисления
const boostStatusCacheTTL = 5 * time.Minute

// HandlePreCheckoutQuery валидирует pre_checkout_query и отвечает Telegram.
// ValidationFailed: кривой payload или расхождение с сохранённым платежом -
// транзакция отклоняется, состояние не меняется.
func (s *Service) HandlePreCheckoutQuery(ctx context.Context, query *domain.PreCheckoutQuery) error {
	intent, err := domain.ParsePaymentIntent(query.InvoicePayload)
	if err != nil {
		s.Log.Warn("pre_checkout_query with invalid payload",
			"query_id", query.ID,
			"error", err,
		)
		return s.rejectPreCheckout(ctx, query.ID, "Платёж не распознан")
	}

	payment, err := s.PaymentRepo.GetByID(ctx, intent.PaymentID)
	if err != nil {
		s.Log.Warn("payment not found for pre_checkout_query",
			"query_id", query.ID,
			"payment_id", intent.PaymentID,
			"error", err,
		)
		return s.rejectPreCheckout(ctx, query.ID, "Платёж не найден")
	}

	if query.From != nil && payment.UserTelegramID != query.From.ID {
		s.Log.Warn("payment user mismatch",
			"query_id", query.ID,
			"payment_id", payment.ID,
			"payment_user", payment.UserTelegramID,
			"query_user", query.From.ID,
		)
		return s.rejectPreCheckout(ctx, query.ID, "Платёж не принадлежит вам")
	}

	if payment.Amount != query.TotalAmount {
		s.Log.Warn("payment amount mismatch",
			"query_id", query.ID,
			"payment_id", payment.ID,
			"payment_amount", payment.Amount,
			"query_amount", query.TotalAmount,
		)
		return s.rejectPreCheckout(ctx, query.ID, "Сумма платежа не совпадает")
	}

	if payment.Currency != query.Currency {
		s.Log.Warn("payment currency mismatch",
			"query_id", query.ID,
			"payment_id", payment.ID,
			"payment_currency", payment.Currency,
			"query_currency", query.Currency,
		)
		return s.rejectPreCheckout(ctx, query.ID, "Валюта платежа не совпадает")
	}

	if payment.Status != domain.PaymentStatusPending {
		s.Log.Warn("payment already processed",
			"query_id", query.ID,
			"payment_id", payment.ID,
			"status", string(payment.Status),
		)
		return s.rejectPreCheckout(ctx, query.ID, "Платёж уже обработан")
	}

	if err := s.PaymentProvider.ConfirmPreCheckout(ctx, query.ID, true, nil); err != nil {
		return fmt.Errorf("failed to confirm pre_checkout_query: %w", err)
	}

	s.Log.Info("pre_checkout_query confirmed",
		"query_id", query.ID,
		"payment_id", payment.ID,
	)

	return nil
}

func (s *Service) rejectPreCheckout(ctx context.Context, queryID string, reason string) error {
	if err := s.PaymentProvider.ConfirmPreCheckout(ctx, queryID, false, &reason); err != nil {
		return fmt.Errorf("failed to reject pre_checkout_query: %w", err)
	}
	return nil
}

// HandleSuccessfulPayment обрабатывает успешный платёж: переводит его в
// succeeded ровно один раз, начисляет продукт, реферальный бонус и
// уведомляет пользователя. Звёзды уже списаны - любая ошибка дальше
// конвертируется в сообщение пользователю и алерт, но не в ретрай.
func (s *Service) HandleSuccessfulPayment(ctx context.Context, chatID int64, successfulPayment *domain.SuccessfulPayment) error {
	intent, err := domain.ParsePaymentIntent(successfulPayment.InvoicePayload)
	if err != nil {
		// Деньги списаны, а платёж не распознан - это уже инцидент
		s.Log.Error("successful_payment with invalid payload",
			"error", err,
			"charge_id", successfulPayment.TelegramPaymentChargeID,
		)
		s.alert(ctx, fmt.Sprintf("⚠️ successful_payment с нечитаемым payload\n\ncharge_id: %s\nошибка: %s",
			successfulPayment.TelegramPaymentChargeID, err.Error()))
		return fmt.Errorf("invalid payload in successful_payment: %w", err)
	}

	// Платёж читается до перехода pending→succeeded: если чтение упадёт после
	// перехода, токен идемпотентности уже потрачен и повторная доставка
	// уйдёт в duplicate-ветку, а начисление потеряется навсегда. До перехода
	// ошибка безопасна - строка остаётся pending, Telegram доставит ещё раз.
	payment, err := s.PaymentRepo.GetByID(ctx, intent.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to get payment before settle: %w", err)
	}

	// Условный UPDATE pending→succeeded: при повторной доставке уведомления
	// first=false и начисление не выполняется второй раз
	first, err := s.PaymentRepo.MarkSucceeded(ctx, intent.PaymentID, successfulPayment.TelegramPaymentChargeID)
	if err != nil {
		return fmt.Errorf("failed to mark payment succeeded: %w", err)
	}
	if !first {
		s.Log.Warn("duplicate successful_payment delivery, skipping",
			"payment_id", intent.PaymentID,
		)
		return nil
	}

	if err := s.grantProduct(ctx, intent); err != nil {
		// StoreWriteFailed: списание уже состоялось, откатить нельзя -
		// уводим в ручную сверку через алерт
		s.Log.Error("failed to grant product after payment",
			"error", err,
			"payment_id", intent.PaymentID,
			"user_tg_id", intent.SubjectID,
			"kind", string(intent.Kind),
		)
		s.alert(ctx, fmt.Sprintf("⚠️ Оплата прошла, начисление не записалось\n\npayment_id: %s\nuser: %d\nkind: %s\nошибка: %s",
			intent.PaymentID, intent.SubjectID, intent.Kind, err.Error()))

		s.publishEvent(ctx, payment, "grant_failed", successfulPayment.TelegramPaymentChargeID)

		if sendErr := s.TelegramService.SendMessage(ctx, chatID, texts.PaymentGrantFailed); sendErr != nil {
			s.Log.Warn("failed to send grant failure notification",
				"error", sendErr,
				"chat_id", chatID,
			)
		}
		return nil
	}

	s.creditReferral(ctx, intent)
	s.refreshBoostCache(ctx, intent)
	s.publishEvent(ctx, payment, "succeeded", successfulPayment.TelegramPaymentChargeID)

	if err := s.TelegramService.SendMessage(ctx, chatID, successText(intent.Kind)); err != nil {
		s.Log.Warn("failed to send payment success notification",
			"error", err,
			"payment_id", intent.PaymentID,
			"chat_id", chatID,
		)
	}

	s.Log.Info("payment processed successfully",
		"payment_id", intent.PaymentID,
		"user_tg_id", intent.SubjectID,
		"kind", string(intent.Kind),
		"amount", payment.Amount,
	)

	return nil
}

// grantProduct применяет entitlement-мутацию по виду продукта.
// Все мутации - атомарные UPDATE на стороне БД.
func (s *Service) grantProduct(ctx context.Context, intent *domain.PaymentIntent) error {
	switch intent.Kind {
	case domain.ProductBoost:
		if err := s.UserRepo.SetBoost(ctx, intent.SubjectID); err != nil {
			return fmt.Errorf("failed to set boost: %w", err)
		}
	case domain.ProductDonate:
		if err := s.UserRepo.IncrementDonate(ctx, intent.SubjectID); err != nil {
			return fmt.Errorf("failed to increment donate: %w", err)
		}
	case domain.ProductEnergy:
		if err := s.UserRepo.ApplyEnergyBoost(ctx, intent.SubjectID); err != nil {
			return fmt.Errorf("failed to apply energy boost: %w", err)
		}
	default:
		return fmt.Errorf("%w: unsupported kind %q", domain.ErrInvalidPayload, string(intent.Kind))
	}
	return nil
}

// creditReferral начисляет бонус рефереру за первую покупку Boost
// приглашённым. ReferralResolutionFailed не блокирует основное начисление:
// все ошибки здесь только логируются.
func (s *Service) creditReferral(ctx context.Context, intent *domain.PaymentIntent) {
	if intent.Kind != domain.ProductBoost || intent.ReferrerID == 0 {
		return
	}
	if intent.ReferrerID == intent.SubjectID {
		return
	}

	// rewarded false→true гарантирует не больше одной награды на приглашённого
	first, err := s.ReferralRepo.MarkRewarded(ctx, intent.ReferrerID, intent.SubjectID)
	if err != nil {
		s.Log.Warn("failed to mark referral rewarded, skipping bonus",
			"error", err,
			"inviter_tg_id", intent.ReferrerID,
			"invitee_tg_id", intent.SubjectID,
		)
		return
	}
	if !first {
		s.Log.Debug("referral already rewarded, skipping bonus",
			"inviter_tg_id", intent.ReferrerID,
			"invitee_tg_id", intent.SubjectID,
		)
		return
	}

	if err := s.UserRepo.IncrementBonusStars(ctx, intent.ReferrerID, domain.ReferralRewardStars); err != nil {
		s.Log.Warn("failed to credit referral bonus",
			"error", err,
			"inviter_tg_id", intent.ReferrerID,
			"invitee_tg_id", intent.SubjectID,
		)
		return
	}

	s.Log.Info("referral bonus credited",
		"inviter_tg_id", intent.ReferrerID,
		"invitee_tg_id", intent.SubjectID,
		"amount", domain.ReferralRewardStars,
	)
}

// refreshBoostCache обновляет кеш статуса Boost, чтобы мини-апп увидел
// покупку без ожидания истечения TTL
func (s *Service) refreshBoostCache(ctx context.Context, intent *domain.PaymentIntent) {
	if s.Cache == nil || intent.Kind != domain.ProductBoost {
		return
	}

	key := domain.BoostStatusCacheKey(intent.SubjectID)
	if err := s.Cache.Set(ctx, key, "true", boostStatusCacheTTL); err != nil {
		s.Log.Warn("failed to refresh boost status cache",
			"error", err,
			"user_tg_id", intent.SubjectID,
		)
	}
}

func (s *Service) alert(ctx context.Context, message string) {
	if s.AlerterService == nil {
		return
	}
	if err := s.AlerterService.SendAlert(ctx, message); err != nil {
		s.Log.Warn("failed to send alert", "error", err)
	}
}

func successText(kind domain.ProductKind) string {
	switch kind {
	case domain.ProductDonate:
		return texts.DonateThanks
	case domain.ProductEnergy:
		return texts.EnergyApplied
	default:
		return texts.BoostActivated
	}
}
