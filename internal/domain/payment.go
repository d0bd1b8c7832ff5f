package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus статус платежа
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // создан, ожидает оплаты
	PaymentStatusSucceeded PaymentStatus = "succeeded" // успешно оплачен и обработан
	PaymentStatusFailed    PaymentStatus = "failed"    // invoice не создан или оплата не прошла
)

// Payment платёж в Telegram Stars. ID одновременно служит idempotency-токеном:
// он уходит в invoice payload и при подтверждении переводится
// pending→succeeded ровно один раз.
type Payment struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	UserTelegramID     int64         `json:"user_telegram_id" db:"user_tg_id"`
	Kind               ProductKind   `json:"kind" db:"kind"`
	Amount             int64         `json:"amount" db:"amount"`     // количество звёзд
	Currency           string        `json:"currency" db:"currency"` // всегда "XTR"
	Payload            string        `json:"payload" db:"payload"`
	ProviderID         string        `json:"provider_id" db:"provider_id"` // message_id инвойса либо invoice link
	Status             PaymentStatus `json:"status" db:"status"`
	ReferrerTelegramID *int64        `json:"referrer_telegram_id,omitempty" db:"referrer_tg_id"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	SucceededAt        *time.Time    `json:"succeeded_at,omitempty" db:"succeeded_at"`
	FailedAt           *time.Time    `json:"failed_at,omitempty" db:"failed_at"`
	ErrorMessage       *string       `json:"error_message,omitempty" db:"error_message"`
}

// StarsCurrency валюта Telegram Stars
const StarsCurrency = "XTR"
