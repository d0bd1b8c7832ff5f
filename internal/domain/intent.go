package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxInvoicePayloadBytes лимит Telegram на размер invoice payload
const MaxInvoicePayloadBytes = 128

// ProductKind вид продукта, оплачиваемого звёздами
type ProductKind string

const (
	ProductBoost  ProductKind = "boost"
	ProductDonate ProductKind = "donate"
	ProductEnergy ProductKind = "energy"
)

func (k ProductKind) String() string {
	return string(k)
}

func (k ProductKind) IsValid() bool {
	switch k {
	case ProductBoost, ProductDonate, ProductEnergy:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidPayload = errors.New("invalid invoice payload")
	ErrPayloadTooLong = errors.New("invoice payload exceeds telegram limit")
)

// PaymentIntent содержимое invoice payload: что куплено, кем и с каким
// реферером. Создаётся при выставлении инвойса, читается ровно один раз при
// подтверждении оплаты, нигде больше не хранится. PaymentID - уникальный токен
// инвойса для защиты от повторной доставки successful_payment.
type PaymentIntent struct {
	PaymentID  uuid.UUID   `json:"pid"`
	Kind       ProductKind `json:"kind"`
	SubjectID  int64       `json:"uid"`
	ReferrerID int64       `json:"ref,omitempty"` // только для boost, 0 = нет реферера
}

// Validate проверяет структурную корректность intent
func (i *PaymentIntent) Validate() error {
	if !i.Kind.IsValid() {
		return fmt.Errorf("%w: unsupported kind %q", ErrInvalidPayload, string(i.Kind))
	}
	if i.SubjectID <= 0 {
		return fmt.Errorf("%w: subject id must be positive, got %d", ErrInvalidPayload, i.SubjectID)
	}
	if i.PaymentID == uuid.Nil {
		return fmt.Errorf("%w: payment id is empty", ErrInvalidPayload)
	}
	if i.ReferrerID != 0 && i.Kind != ProductBoost {
		return fmt.Errorf("%w: referrer is only meaningful for boost", ErrInvalidPayload)
	}
	return nil
}

// Encode сериализует intent в строку payload с проверкой лимита размера
func (i *PaymentIntent) Encode() (string, error) {
	if err := i.Validate(); err != nil {
		return "", err
	}

	data, err := json.Marshal(i)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment intent: %w", err)
	}

	if len(data) > MaxInvoicePayloadBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrPayloadTooLong, len(data))
	}

	return string(data), nil
}

// ParsePaymentIntent разбирает payload, валидируя его один раз на границе системы
func ParsePaymentIntent(payload string) (*PaymentIntent, error) {
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if len(payload) > MaxInvoicePayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLong, len(payload))
	}

	var intent PaymentIntent
	if err := json.Unmarshal([]byte(payload), &intent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if err := intent.Validate(); err != nil {
		return nil, err
	}

	return &intent, nil
}
