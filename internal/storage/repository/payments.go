package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

const paymentSelect = `SELECT p.id, p.client_id, p.subscription_id, p.amount, p.currency, p.payment_date,
			      p.status, p.notes, c.name, s.type, p.created_at, p.updated_at
			  FROM payments p
			  LEFT JOIN clients c ON c.id = p.client_id
			  LEFT JOIN subscriptions s ON s.id = p.subscription_id`

func scanPayment(row scanner) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.ClientID, &p.SubscriptionID, &p.Amount, &p.Currency, &p.PaymentDate,
		&p.Status, &p.Notes, &p.ClientName, &p.SubscriptionType, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment сохраняет платёж с уже вычисленным статусом.
func (s *Storage) CreatePayment(ctx context.Context, req models.PaymentRequest, status string) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (client_id, subscription_id, amount, currency, payment_date, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query,
		req.ClientID, req.SubscriptionID, req.Amount, req.Currency, req.PaymentDate, status, req.Notes).Scan(&id); err != nil {
		return nil, wrap(op, err)
	}
	return s.GetPayment(ctx, id)
}

// GetPayment возвращает платёж с именем клиента и типом подписки.
func (s *Storage) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p, err := scanPayment(s.DB.QueryRowContext(ctx, paymentSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return p, nil
}

// ListPayments возвращает платежи с фильтрами. Search ищет по имени клиента.
func (s *Storage) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := paymentSelect + `
			  WHERE ($1::bigint IS NULL OR p.client_id = $1)
			    AND ($2::bigint IS NULL OR p.subscription_id = $2)
			    AND ($3::text = '' OR p.status = $3)
			    AND ($4::text = '' OR c.name ILIKE '%' || $4 || '%')
			  ORDER BY p.created_at, p.id`
	rows, err := s.DB.QueryContext(ctx, query, filter.ClientID, filter.SubscriptionID, filter.Status, filter.Search)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdatePayment перезаписывает поля платежа со статусом status.
func (s *Storage) UpdatePayment(ctx context.Context, id int64, req models.PaymentRequest, status string) (*models.Payment, error) {
	const op = "storage.UpdatePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET client_id = $1, subscription_id = $2, amount = $3, currency = $4,
			      payment_date = $5, status = $6, notes = $7, updated_at = now()
			  WHERE id = $8`
	res, err := s.DB.ExecContext(ctx, query,
		req.ClientID, req.SubscriptionID, req.Amount, req.Currency, req.PaymentDate, status, req.Notes, id)
	if err != nil {
		return nil, wrap(op, err)
	}
	if err := affected(op, res); err != nil {
		return nil, err
	}
	return s.GetPayment(ctx, id)
}

// DeletePayment удаляет платёж.
func (s *Storage) DeletePayment(ctx context.Context, id int64) error {
	const op = "storage.DeletePayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// SumPayments суммирует платежи со статусом status. Нулевые from/to
// снимают ограничение по дате, пустая валюта — по валюте.
func (s *Storage) SumPayments(ctx context.Context, status string, from, to time.Time, currency string) (models.SumCount, error) {
	const op = "storage.SumPayments"
	select {
	case <-ctx.Done():
		return models.SumCount{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0), COUNT(*)
			  FROM payments
			  WHERE status = $1
			    AND ($2::timestamptz IS NULL OR payment_date >= $2)
			    AND ($3::timestamptz IS NULL OR payment_date <= $3)
			    AND ($4::text = '' OR currency = $4)`
	var sc models.SumCount
	if err := s.DB.QueryRowContext(ctx, query, status, nullTime(from), nullTime(to), currency).
		Scan(&sc.Sum, &sc.Count); err != nil {
		return models.SumCount{}, wrap(op, err)
	}
	return sc, nil
}

// OverduePayments возвращает просроченные платежи с именем клиента и типом подписки.
func (s *Storage) OverduePayments(ctx context.Context) ([]models.OverduePayment, error) {
	const op = "storage.OverduePayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.amount, p.currency, p.payment_date, c.name, s.type
			  FROM payments p
			  LEFT JOIN clients c ON c.id = p.client_id
			  LEFT JOIN subscriptions s ON s.id = p.subscription_id
			  WHERE p.status = 'overdue'
			  ORDER BY p.payment_date, p.id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.OverduePayment
	for rows.Next() {
		var p models.OverduePayment
		if err := rows.Scan(&p.ID, &p.Amount, &p.Currency, &p.PaymentDate, &p.ClientName, &p.SubscriptionType); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// MarkOverduePayments переводит в overdue ожидающие платежи с датой раньше now.
func (s *Storage) MarkOverduePayments(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.MarkOverduePayments"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE payments
			  SET status = 'overdue', updated_at = now()
			  WHERE status = 'pending' AND payment_date < $1`, now)
	if err != nil {
		return 0, wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}

// nullTime превращает нулевое время в NULL.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
