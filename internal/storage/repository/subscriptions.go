package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

const subscriptionSelect = `SELECT s.id, s.client_id, c.name, s.type, s.amount, s.currency, s.status,
			      s.billing_cycle, s.start_date, s.end_date, s.trial_end_date, s.usage_limit, s.notes,
			      s.created_at, s.updated_at
			  FROM subscriptions s
			  LEFT JOIN clients c ON c.id = s.client_id`

func scanSubscription(row scanner) (*models.Subscription, error) {
	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.ClientID, &sub.ClientName, &sub.Type, &sub.Amount, &sub.Currency,
		&sub.Status, &sub.BillingCycle, &sub.StartDate, &sub.EndDate, &sub.TrialEndDate,
		&sub.UsageLimit, &sub.Notes, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubscription сохраняет подписку с уже вычисленным статусом.
func (s *Storage) CreateSubscription(ctx context.Context, req models.SubscriptionRequest, status string) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (client_id, type, amount, currency, status, billing_cycle,
			      start_date, end_date, trial_end_date, usage_limit, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query,
		req.ClientID, req.Type, req.Amount, req.Currency, status, req.BillingCycle,
		req.StartDate, req.EndDate, req.TrialEndDate, req.UsageLimit, req.Notes).Scan(&id); err != nil {
		return nil, wrap(op, err)
	}
	return s.GetSubscription(ctx, id)
}

// GetSubscription возвращает подписку по ID вместе с именем клиента.
func (s *Storage) GetSubscription(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, subscriptionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return sub, nil
}

// ListSubscriptions возвращает подписки с фильтрами по клиенту, статусу и типу.
func (s *Storage) ListSubscriptions(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := subscriptionSelect + `
			  WHERE ($1::bigint IS NULL OR s.client_id = $1)
			    AND ($2::text = '' OR s.status = $2)
			    AND ($3::text = '' OR s.type = $3)
			  ORDER BY s.created_at, s.id`
	rows, err := s.DB.QueryContext(ctx, query, filter.ClientID, filter.Status, filter.Type)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdateSubscription перезаписывает поля подписки. Статус передаётся явно
// и не пересчитывается по датам.
func (s *Storage) UpdateSubscription(ctx context.Context, id int64, req models.SubscriptionRequest, status string) (*models.Subscription, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET client_id = $1, type = $2, amount = $3, currency = $4, status = $5,
			      billing_cycle = $6, start_date = $7, end_date = $8, trial_end_date = $9,
			      usage_limit = $10, notes = $11, updated_at = now()
			  WHERE id = $12`
	res, err := s.DB.ExecContext(ctx, query,
		req.ClientID, req.Type, req.Amount, req.Currency, status, req.BillingCycle,
		req.StartDate, req.EndDate, req.TrialEndDate, req.UsageLimit, req.Notes, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	if err := affected(op, res); err != nil {
		return nil, err
	}
	return s.GetSubscription(ctx, id)
}

// DeleteSubscription удаляет подписку. Платежи остаются с subscription_id = NULL.
func (s *Storage) DeleteSubscription(ctx context.Context, id int64) error {
	const op = "storage.DeleteSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// SumMRR суммирует активные ежемесячные рекуррентные подписки.
func (s *Storage) SumMRR(ctx context.Context) (decimal.Decimal, error) {
	const op = "storage.SumMRR"
	select {
	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM subscriptions
			  WHERE status = 'active' AND type = 'recurring' AND billing_cycle = 'monthly'`
	var sum decimal.Decimal
	if err := s.DB.QueryRowContext(ctx, query).Scan(&sum); err != nil {
		return decimal.Zero, wrap(op, err)
	}
	return sum, nil
}

// CountActiveSubscriptions возвращает число активных подписок.
func (s *Storage) CountActiveSubscriptions(ctx context.Context) (int64, error) {
	const op = "storage.CountActiveSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var n int64
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE status = 'active'`).Scan(&n); err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}

// RenewingSubscriptions возвращает активные рекуррентные подписки,
// которые заканчиваются в интервале [from, to].
func (s *Storage) RenewingSubscriptions(ctx context.Context, from, to time.Time) ([]models.RenewingSubscription, error) {
	const op = "storage.RenewingSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.type, s.amount, s.currency, s.end_date, c.name
			  FROM subscriptions s
			  LEFT JOIN clients c ON c.id = s.client_id
			  WHERE s.status = 'active' AND s.type = 'recurring'
			    AND s.end_date BETWEEN $1 AND $2
			  ORDER BY s.end_date, s.id`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.RenewingSubscription
	for rows.Next() {
		var r models.RenewingSubscription
		if err := rows.Scan(&r.ID, &r.Type, &r.Amount, &r.Currency, &r.EndDate, &r.ClientName); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}
