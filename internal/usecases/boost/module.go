package boost

import (
	"log/slog"

	"github.com/Andrey15243/Pin/internal/ports/cache"
	"github.com/Andrey15243/Pin/internal/ports/repository"
	"github.com/Andrey15243/Pin/internal/ports/service"
)

// Service бизнес-логика бота: команды, пользователи, рефералы и
// статус Boost для мини-аппа
type Service struct {
	UserRepo        repository.IUserRepo
	ReferralRepo    repository.IReferralRepo
	TelegramService service.ITelegramService
	PaymentService  service.IPaymentService
	Cache           cache.Cache // опционален
	Log             *slog.Logger
}

func New(
	userRepo repository.IUserRepo,
	referralRepo repository.IReferralRepo,
	telegramService service.ITelegramService,
	paymentService service.IPaymentService,
	cache cache.Cache,
	log *slog.Logger,
) *Service {
	return &Service{
		UserRepo:        userRepo,
		ReferralRepo:    referralRepo,
		TelegramService: telegramService,
		PaymentService:  paymentService,
		Cache:           cache,
		Log:             log,
	}
}
