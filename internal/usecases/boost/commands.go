package boost

import (
	"context"
	"strconv"
	"strings"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/Andrey15243/Pin/internal/usecases/boost/texts"
)

func (s *Service) HandleCommand(ctx context.Context, user *domain.User, command string, args string, updateID int64) error {
	switch command {
	case "start":
		return s.HandleStart(ctx, user, args)
	case "terms":
		return s.sendMessage(ctx, user.TelegramChatID, texts.Terms)
	case "support":
		return s.sendMessage(ctx, user.TelegramChatID, texts.Support)
	case "sendstars", "buy_boost":
		return s.HandleSendStars(ctx, user)
	case "status":
		return s.HandleStatus(ctx, user)
	case "help":
		return s.sendMessage(ctx, user.TelegramChatID, texts.Welcome)
	default:
		return s.sendMessage(ctx, user.TelegramChatID, texts.FormatUnknownCommand(command))
	}
}

// HandleText свободный текст бот не обрабатывает
func (s *Service) HandleText(ctx context.Context, user *domain.User, text string, updateID int64) error {
	return s.sendMessage(ctx, user.TelegramChatID, texts.UnknownText)
}

// HandleStart обрабатывает /start, опционально с реферальным кодом
// ("/start 2002" или "/start ref2002" из пригласительной ссылки)
func (s *Service) HandleStart(ctx context.Context, user *domain.User, args string) error {
	inviterID := parseReferralCode(args)
	if inviterID != 0 {
		s.recordReferral(ctx, inviterID, user)
		return s.sendMessage(ctx, user.TelegramChatID, texts.WelcomeWithReferral)
	}

	return s.sendMessage(ctx, user.TelegramChatID, texts.Welcome)
}

// HandleSendStars выставляет invoice на покупку Boost прямо в чат
func (s *Service) HandleSendStars(ctx context.Context, user *domain.User) error {
	_, err := s.PaymentService.CreateInvoice(ctx, domain.ProductBoost, user.TelegramID, user.TelegramChatID, 0)
	if err != nil {
		s.Log.Error("failed to create boost invoice",
			"error", err,
			"telegram_user_id", user.TelegramID,
		)
		return s.sendMessage(ctx, user.TelegramChatID, texts.InvoiceFailed)
	}

	return nil
}

// HandleStatus показывает сводку по аккаунту
func (s *Service) HandleStatus(ctx context.Context, user *domain.User) error {
	friends, err := s.ReferralRepo.ListByInviter(ctx, user.TelegramID)
	if err != nil {
		s.Log.Warn("failed to list referrals for status",
			"error", err,
			"telegram_user_id", user.TelegramID,
		)
	}

	return s.sendMessage(ctx, user.TelegramChatID,
		texts.FormatStatus(user.Boost, user.Donate, user.BonusStars, user.ClickerEnergy, len(friends)))
}

// parseReferralCode принимает "2002" и "ref2002", возвращает 0 если код
// не распознан
func parseReferralCode(args string) int64 {
	code := strings.TrimSpace(args)
	code = strings.TrimPrefix(code, "ref")
	if code == "" {
		return 0
	}

	id, err := strconv.ParseInt(code, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func (s *Service) sendMessage(ctx context.Context, chatID int64, text string) error {
	return s.TelegramService.SendMessage(ctx, chatID, text)
}
