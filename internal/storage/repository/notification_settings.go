package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// GetNotificationSettings возвращает настройки уведомлений пользователя.
func (s *Storage) GetNotificationSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error) {
	const op = "storage.GetNotificationSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_id, notify_overdue_payments, notify_renewals, notify_expenses,
			      daily_summary, renewal_reminder_days
			  FROM notification_settings
			  WHERE user_id = $1`
	var ns models.NotificationSettings
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&ns.UserID, &ns.NotifyOverduePayments,
		&ns.NotifyRenewals, &ns.NotifyExpenses, &ns.DailySummary, &ns.RenewalReminderDays); err != nil {
		return nil, wrap(op, err)
	}
	return &ns, nil
}

// UpsertNotificationSettings сохраняет настройки, создавая строку при её отсутствии.
func (s *Storage) UpsertNotificationSettings(ctx context.Context, ns models.NotificationSettings) (*models.NotificationSettings, error) {
	const op = "storage.UpsertNotificationSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notification_settings (user_id, notify_overdue_payments, notify_renewals,
			      notify_expenses, daily_summary, renewal_reminder_days)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_id) DO UPDATE
			  SET notify_overdue_payments = EXCLUDED.notify_overdue_payments,
			      notify_renewals = EXCLUDED.notify_renewals,
			      notify_expenses = EXCLUDED.notify_expenses,
			      daily_summary = EXCLUDED.daily_summary,
			      renewal_reminder_days = EXCLUDED.renewal_reminder_days,
			      updated_at = now()
			  RETURNING user_id, notify_overdue_payments, notify_renewals, notify_expenses,
			      daily_summary, renewal_reminder_days`
	var out models.NotificationSettings
	if err := s.DB.QueryRowContext(ctx, query, ns.UserID, ns.NotifyOverduePayments, ns.NotifyRenewals,
		ns.NotifyExpenses, ns.DailySummary, ns.RenewalReminderDays).Scan(&out.UserID, &out.NotifyOverduePayments,
		&out.NotifyRenewals, &out.NotifyExpenses, &out.DailySummary, &out.RenewalReminderDays); err != nil {
		return nil, wrap(op, err)
	}
	return &out, nil
}
