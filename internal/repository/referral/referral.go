package referralRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	ports "github.com/Andrey15243/Pin/internal/ports/repository"

	"log/slog"

	"github.com/Andrey15243/Pin/internal/domain"
	"github.com/Andrey15243/Pin/internal/ports/persistence"
)

type referralColumns struct {
	TableName   string
	InviterID   string
	InviteeID   string
	InviteeName string
	Rewarded    string
	CreatedAt   string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns referralColumns
}

// New создаёт новый репозиторий для работы с реферальными связями
func New(db persistence.Persistence, log *slog.Logger) ports.IReferralRepo {
	cols := referralColumns{
		TableName:   "referrals",
		InviterID:   "inviter_tg_id",
		InviteeID:   "invitee_tg_id",
		InviteeName: "invitee_name",
		Rewarded:    "rewarded",
		CreatedAt:   "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (5 колонок)
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s",
		r.columns.InviterID,
		r.columns.InviteeID,
		r.columns.InviteeName,
		r.columns.Rewarded,
		r.columns.CreatedAt)
}

// Create вставляет связь, если её ещё нет. ON CONFLICT DO NOTHING делает
// вызов идемпотентным: повторный /start с тем же кодом не перезапишет
// существующую запись и её флаг rewarded.
func (r *Repository) Create(ctx context.Context, referral *domain.Referral) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s, %s) DO NOTHING`,
		r.columns.TableName,
		r.allColumns(),
		r.columns.InviterID,
		r.columns.InviteeID)
	err := r.db.Exec(ctx, query,
		referral.InviterTelegramID,
		referral.InviteeTelegramID,
		referral.InviteeName,
		referral.Rewarded,
		referral.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create referral",
			"error", err,
			"inviter_tg_id", referral.InviterTelegramID,
			"invitee_tg_id", referral.InviteeTelegramID)
		return fmt.Errorf("failed to create referral: %w", err)
	}
	return nil
}

// MarkRewarded переводит rewarded false→true. Возвращает true только при
// первом переходе - награда начисляется не более одного раза на приглашённого.
func (r *Repository) MarkRewarded(ctx context.Context, inviterTelegramID, inviteeTelegramID int64) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = $2 AND %s = FALSE`,
		r.columns.TableName,
		r.columns.Rewarded,
		r.columns.InviterID,
		r.columns.InviteeID,
		r.columns.Rewarded)
	rowsAffected, err := r.db.ExecWithResult(ctx, query, inviterTelegramID, inviteeTelegramID)
	if err != nil {
		r.Log.Error("failed to mark referral rewarded",
			"error", err,
			"inviter_tg_id", inviterTelegramID,
			"invitee_tg_id", inviteeTelegramID)
		return false, fmt.Errorf("failed to mark referral rewarded: %w", err)
	}
	return rowsAffected > 0, nil
}

// GetByInvitee находит связь по приглашённому (у приглашённого максимум
// один пригласивший, фиксируется первый)
func (r *Repository) GetByInvitee(ctx context.Context, inviteeTelegramID int64) (*domain.Referral, error) {
	var referral domain.Referral
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s LIMIT 1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.InviteeID,
		r.columns.CreatedAt)
	err := r.db.Get(ctx, &referral, query, inviteeTelegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.Log.Error("failed to get referral by invitee",
			"error", err,
			"invitee_tg_id", inviteeTelegramID)
		return nil, fmt.Errorf("failed to get referral by invitee: %w", err)
	}
	return &referral, nil
}

// ListByInviter возвращает всех приглашённых пользователя
func (r *Repository) ListByInviter(ctx context.Context, inviterTelegramID int64) ([]domain.Referral, error) {
	var referrals []domain.Referral
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.InviterID,
		r.columns.CreatedAt)
	err := r.db.Select(ctx, &referrals, query, inviterTelegramID)
	if err != nil {
		r.Log.Error("failed to list referrals by inviter",
			"error", err,
			"inviter_tg_id", inviterTelegramID)
		return nil, fmt.Errorf("failed to list referrals by inviter: %w", err)
	}
	return referrals, nil
}
