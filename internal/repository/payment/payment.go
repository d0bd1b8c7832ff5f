package paymentRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ports "github.com/Andrey15243/Pin/internal/ports/repository"

	"log/slog"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/Andrey15243/Pin/internal/ports/persistence"
	"github.com/google/uuid"
)

type paymentColumns struct {
	TableName    string
	ID           string
	UserID       string
	Kind         string
	Amount       string
	Currency     string
	Payload      string
	ProviderID   string
	Status       string
	ReferrerID   string
	CreatedAt    string
	SucceededAt  string
	FailedAt     string
	ErrorMessage string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns paymentColumns
}

// New создаёт новый репозиторий для работы с платежами
func New(db persistence.Persistence, log *slog.Logger) ports.IPaymentRepo {
	cols := paymentColumns{
		TableName:    "payments",
		ID:           "id",
		UserID:       "user_tg_id",
		Kind:         "kind",
		Amount:       "amount",
		Currency:     "currency",
		Payload:      "payload",
		ProviderID:   "provider_id",
		Status:       "status",
		ReferrerID:   "referrer_tg_id",
		CreatedAt:    "created_at",
		SucceededAt:  "succeeded_at",
		FailedAt:     "failed_at",
		ErrorMessage: "error_message",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (13 колонок)
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.Kind,
		r.columns.Amount,
		r.columns.Currency,
		r.columns.Payload,
		r.columns.ProviderID,
		r.columns.Status,
		r.columns.ReferrerID,
		r.columns.CreatedAt,
		r.columns.SucceededAt,
		r.columns.FailedAt,
		r.columns.ErrorMessage)
}

// Create создаёт новый платёж в статусе pending
func (r *Repository) Create(ctx context.Context, payment *domain.Payment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		payment.ID,
		payment.UserTelegramID,
		string(payment.Kind),
		payment.Amount,
		payment.Currency,
		payment.Payload,
		payment.ProviderID,
		string(payment.Status),
		payment.ReferrerTelegramID,
		payment.CreatedAt,
		payment.SucceededAt,
		payment.FailedAt,
		payment.ErrorMessage)
	if err != nil {
		r.Log.Error("failed to create payment",
			"error", err,
			"payment_id", payment.ID,
			"user_tg_id", payment.UserTelegramID)
		return fmt.Errorf("failed to create payment: %w", err)
	}
	r.Log.Debug("payment created successfully",
		"payment_id", payment.ID,
		"user_tg_id", payment.UserTelegramID,
		"amount", payment.Amount)
	return nil
}

// GetByID получает платёж по id
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var payment domain.Payment
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &payment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		r.Log.Error("failed to get payment by id",
			"error", err,
			"payment_id", id)
		return nil, fmt.Errorf("failed to get payment by id: %w", err)
	}
	return &payment, nil
}

// MarkSucceeded переводит платёж pending→succeeded одним условным UPDATE.
// Возвращает true только при первом переходе: повторная доставка
// successful_payment увидит rowsAffected=0 и начисление не повторится.
func (r *Repository) MarkSucceeded(ctx context.Context, id uuid.UUID, providerChargeID string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1 AND %s = $5`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.ProviderID,
		r.columns.SucceededAt,
		r.columns.ID,
		r.columns.Status)
	rowsAffected, err := r.db.ExecWithResult(ctx, query,
		id,
		string(domain.PaymentStatusSucceeded),
		providerChargeID,
		time.Now(),
		string(domain.PaymentStatusPending))
	if err != nil {
		r.Log.Error("failed to mark payment succeeded",
			"error", err,
			"payment_id", id)
		return false, fmt.Errorf("failed to mark payment succeeded: %w", err)
	}
	return rowsAffected > 0, nil
}

// MarkFailed переводит платёж в failed с причиной
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.FailedAt,
		r.columns.ErrorMessage,
		r.columns.ID)
	if err := r.db.Exec(ctx, query,
		id,
		string(domain.PaymentStatusFailed),
		time.Now(),
		reason); err != nil {
		r.Log.Error("failed to mark payment failed",
			"error", err,
			"payment_id", id)
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	return nil
}

// GetPendingOlderThan возвращает зависшие pending-платежи для ручной сверки
func (r *Repository) GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.Payment, error) {
	var payments []domain.Payment
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s < $2 ORDER BY %s`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.Status,
		r.columns.CreatedAt,
		r.columns.CreatedAt)
	err := r.db.Select(ctx, &payments, query,
		string(domain.PaymentStatusPending),
		cutoff)
	if err != nil {
		r.Log.Error("failed to get pending payments", "error", err)
		return nil, fmt.Errorf("failed to get pending payments: %w", err)
	}
	return payments, nil
}

// UpdateProviderID сохраняет id от провайдера (message_id инвойса или ссылку)
func (r *Repository) UpdateProviderID(ctx context.Context, id uuid.UUID, providerID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.ProviderID,
		r.columns.ID)
	if err := r.db.Exec(ctx, query, id, providerID); err != nil {
		r.Log.Error("failed to update provider id",
			"error", err,
			"payment_id", id)
		return fmt.Errorf("failed to update provider id: %w", err)
	}
	return nil
}
