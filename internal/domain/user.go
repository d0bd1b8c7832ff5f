package domain

import (
	"fmt"
	"time"
)

// User пользователь бота. Ключ - Telegram ID (внешний числовой идентификатор),
// все мутации entitlement-полей идут по нему.
type User struct {
	TelegramID     int64      `json:"telegram_id" db:"tg_id"`
	TelegramChatID int64      `json:"telegram_chat_id" db:"chat_id"`
	FirstName      string     `json:"first_name" db:"first_name"`
	LastName       *string    `json:"last_name,omitempty" db:"last_name"`
	Username       *string    `json:"username,omitempty" db:"username"`
	Boost          bool       `json:"boost" db:"boost"`                   // sticky-флаг, подсистема его не снимает
	Donate         int        `json:"donate" db:"donate"`                 // количество завершённых донатов
	BonusStars     int        `json:"bonus_stars" db:"bonus_stars"`       // реферальные бонусы
	ClickerEnergy  int        `json:"clicker_energy" db:"clicker_energy"` // текущая энергия кликера
	EnergyBoost    int        `json:"energy_boost" db:"energy_boost"`     // количество купленных пополнений энергии
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	LastSeenAt     *time.Time `json:"last_seen_at,omitempty" db:"last_seen_at"`
}

// MaxClickerEnergy максимум энергии кликера, до него сбрасывается покупка energy
const MaxClickerEnergy = 1000

// BoostStatusCacheKey ключ кеша статуса Boost. Используется и читающей
// стороной (мост мини-аппа), и пишущей (обработчик платежа).
func BoostStatusCacheKey(telegramID int64) string {
	return fmt.Sprintf("pin:boost_status:%d", telegramID)
}
