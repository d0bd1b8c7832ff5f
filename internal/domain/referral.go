package domain

import "time"

// Referral связь пригласивший → приглашённый, фиксируется при первом /start
// с реферальным кодом. Rewarded переходит false→true не более одного раза -
// когда у приглашённого проходит первая покупка Boost.
type Referral struct {
	InviterTelegramID int64     `json:"inviter_telegram_id" db:"inviter_tg_id"`
	InviteeTelegramID int64     `json:"invitee_telegram_id" db:"invitee_tg_id"`
	InviteeName       string    `json:"invitee_name" db:"invitee_name"`
	Rewarded          bool      `json:"rewarded" db:"rewarded"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// ReferralRewardStars сколько бонусных звёзд начисляется рефереру за покупку Boost
const ReferralRewardStars = 1
