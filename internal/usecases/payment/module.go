package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/Andrey15243/Pin/internal/ports/cache"
	kafkaPort "github.com/Andrey15243/Pin/internal/ports/kafka"
	paymentPort "github.com/Andrey15243/Pin/internal/ports/payment"
	"github.com/Andrey15243/Pin/internal/ports/repository"
	"github.com/Andrey15243/Pin/internal/ports/service"
	"github.com/google/uuid"
)

// Prices стоимость продуктов в звёздах
type Prices struct {
	Boost  int64
	Donate int64
	Energy int64
}

type Service struct {
	PaymentRepo     repository.IPaymentRepo
	UserRepo        repository.IUserRepo
	ReferralRepo    repository.IReferralRepo
	PaymentProvider paymentPort.IPaymentProvider // Telegram Stars провайдер
	TelegramService service.ITelegramService
	AlerterService  service.IAlerterService
	KafkaProducer   kafkaPort.IKafkaProducer // опционален
	Cache           cache.Cache              // опционален
	Prices          Prices
	Log             *slog.Logger
}

func New(
	paymentRepo repository.IPaymentRepo,
	userRepo repository.IUserRepo,
	referralRepo repository.IReferralRepo,
	paymentProvider paymentPort.IPaymentProvider,
	telegramService service.ITelegramService,
	alerterService service.IAlerterService,
	kafkaProducer kafkaPort.IKafkaProducer,
	cache cache.Cache,
	prices Prices,
	log *slog.Logger,
) *Service {
	return &Service{
		PaymentRepo:     paymentRepo,
		UserRepo:        userRepo,
		ReferralRepo:    referralRepo,
		PaymentProvider: paymentProvider,
		TelegramService: telegramService,
		AlerterService:  alerterService,
		KafkaProducer:   kafkaProducer,
		Cache:           cache,
		Prices:          prices,
		Log:             log,
	}
}

// productInfo возвращает цену и тексты для вида продукта
func (s *Service) productInfo(kind domain.ProductKind) (title string, description string, amount int64, err error) {
	switch kind {
	case domain.ProductBoost:
		return "Boost", "Активация Boost в приложении", s.Prices.Boost, nil
	case domain.ProductDonate:
		return "Донат", "Поддержка проекта", s.Prices.Donate, nil
	case domain.ProductEnergy:
		return "Энергия", "Пополнение энергии кликера", s.Prices.Energy, nil
	default:
		return "", "", 0, fmt.Errorf("%w: unsupported kind %q", domain.ErrInvalidPayload, string(kind))
	}
}

// preparePayment минтит payment id, собирает intent и создаёт pending-платёж.
// Для boost без явного реферера реферер подтягивается из реферальной связи.
func (s *Service) preparePayment(
	ctx context.Context,
	kind domain.ProductKind,
	subjectTelegramID int64,
	referrerTelegramID int64,
) (*domain.Payment, string, error) {
	_, _, amount, err := s.productInfo(kind)
	if err != nil {
		return nil, "", err
	}

	if kind == domain.ProductBoost && referrerTelegramID == 0 {
		referral, err := s.ReferralRepo.GetByInvitee(ctx, subjectTelegramID)
		if err != nil {
			// Реферер - бонусная механика, его отсутствие не блокирует покупку
			s.Log.Warn("failed to resolve referrer, continuing without",
				"error", err,
				"user_tg_id", subjectTelegramID,
			)
		} else if referral != nil && !referral.Rewarded {
			referrerTelegramID = referral.InviterTelegramID
		}
	}

	if kind != domain.ProductBoost {
		referrerTelegramID = 0
	}

	if referrerTelegramID == subjectTelegramID {
		referrerTelegramID = 0
	}

	paymentID := uuid.New()
	intent := &domain.PaymentIntent{
		PaymentID:  paymentID,
		Kind:       kind,
		SubjectID:  subjectTelegramID,
		ReferrerID: referrerTelegramID,
	}

	payload, err := intent.Encode()
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode payment intent: %w", err)
	}

	payment := &domain.Payment{
		ID:             paymentID,
		UserTelegramID: subjectTelegramID,
		Kind:           kind,
		Amount:         amount,
		Currency:       domain.StarsCurrency,
		Payload:        payload,
		Status:         domain.PaymentStatusPending,
		CreatedAt:      time.Now(),
	}
	if referrerTelegramID != 0 {
		payment.ReferrerTelegramID = &referrerTelegramID
	}

	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, "", fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, payload, nil
}

// CreateInvoice выставляет invoice сообщением в чат пользователя
func (s *Service) CreateInvoice(
	ctx context.Context,
	kind domain.ProductKind,
	subjectTelegramID int64,
	chatID int64,
	referrerTelegramID int64,
) (*domain.Payment, error) {
	payment, payload, err := s.preparePayment(ctx, kind, subjectTelegramID, referrerTelegramID)
	if err != nil {
		return nil, err
	}

	title, description, amount, _ := s.productInfo(kind)

	result, err := s.PaymentProvider.SendInvoice(ctx, paymentPort.CreateInvoiceRequest{
		ChatID:       chatID,
		ProductTitle: title,
		Description:  description,
		Amount:       amount,
		Currency:     domain.StarsCurrency,
		Payload:      payload,
	})
	if err != nil {
		// IssueFailed: состояние пользователя не тронуто, платёж закрывается
		if markErr := s.PaymentRepo.MarkFailed(ctx, payment.ID, "failed to send invoice"); markErr != nil {
			s.Log.Error("failed to mark payment failed",
				"error", markErr,
				"payment_id", payment.ID,
			)
		}
		return nil, fmt.Errorf("failed to send invoice: %w", err)
	}

	if err := s.PaymentRepo.UpdateProviderID(ctx, payment.ID, result.ProviderID); err != nil {
		s.Log.Warn("failed to store provider id",
			"error", err,
			"payment_id", payment.ID,
		)
	}
	payment.ProviderID = result.ProviderID

	s.Log.Info("invoice sent",
		"payment_id", payment.ID,
		"user_tg_id", subjectTelegramID,
		"kind", string(kind),
		"amount", amount,
	)

	return payment, nil
}

// CreateInvoiceLink создаёт ссылку на invoice для мини-аппа
func (s *Service) CreateInvoiceLink(
	ctx context.Context,
	kind domain.ProductKind,
	subjectTelegramID int64,
) (string, error) {
	payment, payload, err := s.preparePayment(ctx, kind, subjectTelegramID, 0)
	if err != nil {
		return "", err
	}

	title, description, amount, _ := s.productInfo(kind)

	link, err := s.PaymentProvider.CreateInvoiceLink(ctx, paymentPort.CreateInvoiceRequest{
		ProductTitle: title,
		Description:  description,
		Amount:       amount,
		Currency:     domain.StarsCurrency,
		Payload:      payload,
	})
	if err != nil {
		if markErr := s.PaymentRepo.MarkFailed(ctx, payment.ID, "failed to create invoice link"); markErr != nil {
			s.Log.Error("failed to mark payment failed",
				"error", markErr,
				"payment_id", payment.ID,
			)
		}
		return "", fmt.Errorf("failed to create invoice link: %w", err)
	}

	if err := s.PaymentRepo.UpdateProviderID(ctx, payment.ID, link); err != nil {
		s.Log.Warn("failed to store provider id",
			"error", err,
			"payment_id", payment.ID,
		)
	}

	s.Log.Info("invoice link created",
		"payment_id", payment.ID,
		"user_tg_id", subjectTelegramID,
		"kind", string(kind),
		"amount", amount,
	)

	return link, nil
}

// paymentEvent событие о платеже для Kafka
type paymentEvent struct {
	PaymentID      uuid.UUID          `json:"payment_id"`
	UserTelegramID int64              `json:"user_tg_id"`
	Kind           domain.ProductKind `json:"kind"`
	Amount         int64              `json:"amount"`
	Currency       string             `json:"currency"`
	Status         string             `json:"status"`
	ChargeID       string             `json:"charge_id,omitempty"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// publishEvent публикует событие о платеже, ошибки не блокируют основной поток
func (s *Service) publishEvent(ctx context.Context, payment *domain.Payment, status string, chargeID string) {
	if s.KafkaProducer == nil {
		return
	}

	event := paymentEvent{
		PaymentID:      payment.ID,
		UserTelegramID: payment.UserTelegramID,
		Kind:           payment.Kind,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		Status:         status,
		ChargeID:       chargeID,
		OccurredAt:     time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.Log.Error("failed to marshal payment event", "error", err, "payment_id", payment.ID)
		return
	}

	if err := s.KafkaProducer.Send(ctx, payment.ID.String(), data); err != nil {
		s.Log.Warn("failed to publish payment event",
			"error", err,
			"payment_id", payment.ID,
		)
	}
}
