package userRepo

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
)

type userColumns struct {
	TableName      string
	TelegramUserID string
	TelegramChatID string
	FirstName      string
	LastName       string
	Username       string
	Boost          string
	Donate         string
	BonusStars     string
	ClickerEnergy  string
	EnergyBoost    string
	CreatedAt      string
	UpdatedAt      string
	LastSeenAt     string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns userColumns
}

// New создаёт новый репозиторий для работы с пользователями
func New(db persistence.Persistence, log *slog.Logger) ports.IUserRepo {
	cols := userColumns{
		TableName:      "users",
		TelegramUserID: "tg_id",
		TelegramChatID: "chat_id",
		FirstName:      "first_name",
		LastName:       "last_name",
		Username:       "username",
		Boost:          "boost",
		Donate:         "donate",
		BonusStars:     "bonus_stars",
		ClickerEnergy:  "clicker_energy",
		EnergyBoost:    "energy_boost",
		CreatedAt:      "created_at",
		UpdatedAt:      "updated_at",
		LastSeenAt:     "last_seen_at",
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
		r.columns.TelegramUserID,
		r.columns.TelegramChatID,
		r.columns.FirstName,
		r.columns.LastName,
		r.columns.Username,
		r.columns.Boost,
		r.columns.Donate,
		r.columns.BonusStars,
		r.columns.ClickerEnergy,
		r.columns.EnergyBoost,
		r.columns.CreatedAt,
		r.columns.UpdatedAt,
		r.columns.LastSeenAt)
}

// Create создаёт нового пользователя
func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		user.TelegramID,
		user.TelegramChatID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Boost,
		user.Donate,
		user.BonusStars,
		user.ClickerEnergy,
		user.EnergyBoost,
		user.CreatedAt,
		user.UpdatedAt,
		user.LastSeenAt)
	if err != nil {
		r.Log.Error("failed to create user",
			"error", err,
			"telegram_user_id", user.TelegramID)
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.Log.Debug("user created successfully", "telegram_user_id", user.TelegramID)
	return nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.TelegramUserID)
	err := r.db.Get(ctx, &user, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		r.Log.Error("failed to get user by telegram id",
			"error", err,
			"telegram_user_id", telegramID)
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}
	return &user, nil
}

// UpdateProfile обновляет профиль пользователя (имя и username могли измениться)
func (r *Repository) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.TelegramChatID,
		r.columns.FirstName,
		r.columns.LastName,
		r.columns.Username,
		r.columns.UpdatedAt,
		r.columns.TelegramUserID)
	rowsAffected, err := r.db.ExecWithResult(ctx, query,
		user.TelegramID,
		user.TelegramChatID,
		user.FirstName,
		user.LastName,
		user.Username)
	if err != nil {
		r.Log.Error("failed to update user profile",
			"error", err,
			"telegram_user_id", user.TelegramID)
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateLastSeen отмечает активность пользователя
func (r *Repository) UpdateLastSeen(ctx context.Context, telegramID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.LastSeenAt,
		r.columns.TelegramUserID)
	if err := r.db.Exec(ctx, query, telegramID, time.Now()); err != nil {
		r.Log.Error("failed to update last seen",
			"error", err,
			"telegram_user_id", telegramID)
		return fmt.Errorf("failed to update last seen: %w", err)
	}
	return nil
}

// SetBoost включает sticky-флаг Boost. Повторный вызов безвреден:
// UPDATE просто оставляет true.
func (r *Repository) SetBoost(ctx context.Context, telegramID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.Boost,
		r.columns.UpdatedAt,
		r.columns.TelegramUserID)
	rowsAffected, err := r.db.ExecWithResult(ctx, query, telegramID)
	if err != nil {
		r.Log.Error("failed to set boost",
			"error", err,
			"telegram_user_id", telegramID)
		return fmt.Errorf("failed to set boost: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	r.Log.Info("boost activated", "telegram_user_id", telegramID)
	return nil
}

// GetBoostStatus возвращает false для неизвестного пользователя, не ошибку
func (r *Repository) GetBoostStatus(ctx context.Context, telegramID int64) (bool, error) {
	var boost bool
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.columns.Boost,
		r.columns.TableName,
		r.columns.TelegramUserID)
	err := r.db.Get(ctx, &boost, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		r.Log.Error("failed to get boost status",
			"error", err,
			"telegram_user_id", telegramID)
		return false, fmt.Errorf("failed to get boost status: %w", err)
	}
	return boost, nil
}

// IncrementDonate атомарно увеличивает счётчик донатов.
// Инкремент выполняется на стороне БД - никакого read-modify-write,
// конкурентные платежи одного пользователя не теряют обновлений.
func (r *Repository) IncrementDonate(ctx context.Context, telegramID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.Donate,
		r.columns.Donate,
		r.columns.UpdatedAt,
		r.columns.TelegramUserID)
	rowsAffected, err := r.db.ExecWithResult(ctx, query, telegramID)
	if err != nil {
		r.Log.Error("failed to increment donate",
			"error", err,
			"telegram_user_id", telegramID)
		return fmt.Errorf("failed to increment donate: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// IncrementBonusStars атомарно начисляет бонусные звёзды рефереру
func (r *Repository) IncrementBonusStars(ctx context.Context, telegramID int64, amount int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + $2, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.BonusStars,
		r.columns.BonusStars,
		r.columns.UpdatedAt,
		r.columns.TelegramUserID)
	rowsAffected, err := r.db.ExecWithResult(ctx, query, telegramID, amount)
	if err != nil {
		r.Log.Error("failed to increment bonus stars",
			"error", err,
			"telegram_user_id", telegramID,
			"amount", amount)
		return fmt.Errorf("failed to increment bonus stars: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ApplyEnergyBoost одним UPDATE инкрементит счётчик покупок энергии
// и сбрасывает clicker_energy в максимум
func (r *Repository) ApplyEnergyBoost(ctx context.Context, telegramID int64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1, %s = $2, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.EnergyBoost,
		r.columns.EnergyBoost,
		r.columns.ClickerEnergy,
		r.columns.UpdatedAt,
		r.columns.TelegramUserID)
	rowsAffected, err := r.db.ExecWithResult(ctx, query, telegramID, domain.MaxClickerEnergy)
	if err != nil {
		r.Log.Error("failed to apply energy boost",
			"error", err,
			"telegram_user_id", telegramID)
		return fmt.Errorf("failed to apply energy boost: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
