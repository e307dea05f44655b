package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

const userColumns = `id, username, password_hash, telegram_chat_id, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.TelegramChatID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser сохраняет пользователя и в той же транзакции создаёт
// строку настроек уведомлений со значениями по умолчанию.
// Повторное имя пользователя возвращает ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	u, err := scanUser(tx.QueryRowContext(ctx, `INSERT INTO users (username, password_hash)
			  VALUES ($1, $2)
			  RETURNING `+userColumns, username, passwordHash))
	if err != nil {
		return nil, wrap(op, err)
	}

	d := models.DefaultNotificationSettings(u.ID)
	if _, err := tx.ExecContext(ctx, `INSERT INTO notification_settings (user_id, notify_overdue_payments,
			      notify_renewals, notify_expenses, daily_summary, renewal_reminder_days)
			  VALUES ($1, $2, $3, $4, $5, $6)`,
		d.UserID, d.NotifyOverduePayments, d.NotifyRenewals, d.NotifyExpenses, d.DailySummary,
		d.RenewalReminderDays); err != nil {
		return nil, wrap(op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по имени.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// FirstUser возвращает пользователя с наименьшим ID.
func (s *Storage) FirstUser(ctx context.Context) (*models.User, error) {
	const op = "storage.FirstUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT 1`))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// SetTelegramChatID привязывает чат к пользователю, nil отвязывает.
func (s *Storage) SetTelegramChatID(ctx context.Context, userID int64, chatID *string) error {
	const op = "storage.SetTelegramChatID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET telegram_chat_id = $1, updated_at = now() WHERE id = $2`, chatID, userID)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}
