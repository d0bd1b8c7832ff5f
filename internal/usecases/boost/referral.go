package boost

import (
	"context"
	"strings"
	"time"

	"github.com/Andrey15243/Pin/internal/domain"
)

// recordReferral фиксирует связь пригласивший → приглашённый.
// Самоприглашение игнорируется, повторный /start с тем же кодом не
// перезаписывает существующую запись (insert-if-absent в репозитории).
// Ошибки не возвращаются: реферал - бонусная механика, /start должен
// отработать в любом случае.
func (s *Service) recordReferral(ctx context.Context, inviterID int64, invitee *domain.User) {
	if inviterID == invitee.TelegramID {
		s.Log.Debug("self-referral ignored", "telegram_user_id", inviterID)
		return
	}

	// Пригласивший должен существовать, иначе код битый
	if _, err := s.UserRepo.GetByTelegramID(ctx, inviterID); err != nil {
		s.Log.Warn("referral inviter not found, skipping",
			"error", err,
			"inviter_tg_id", inviterID,
			"invitee_tg_id", invitee.TelegramID,
		)
		return
	}

	referral := &domain.Referral{
		InviterTelegramID: inviterID,
		InviteeTelegramID: invitee.TelegramID,
		InviteeName:       inviteeDisplayName(invitee),
		Rewarded:          false,
		CreatedAt:         time.Now(),
	}

	if err := s.ReferralRepo.Create(ctx, referral); err != nil {
		s.Log.Warn("failed to record referral",
			"error", err,
			"inviter_tg_id", inviterID,
			"invitee_tg_id", invitee.TelegramID,
		)
		return
	}

	s.Log.Info("referral recorded",
		"inviter_tg_id", inviterID,
		"invitee_tg_id", invitee.TelegramID,
	)
}

func inviteeDisplayName(user *domain.User) string {
	if user.Username != nil && *user.Username != "" {
		return "@" + *user.Username
	}

	name := user.FirstName
	if user.LastName != nil && *user.LastName != "" {
		name = strings.TrimSpace(name + " " + *user.LastName)
	}
	return name
}
