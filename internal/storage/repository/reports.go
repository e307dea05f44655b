package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// RevenueItems возвращает завершённые платежи периода, новые первыми.
func (s *Storage) RevenueItems(ctx context.Context, f models.ReportFilter) ([]models.RevenueItem, error) {
	const op = "storage.RevenueItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.client_id, p.amount, p.currency, p.payment_date, c.name
			  FROM payments p
			  LEFT JOIN clients c ON c.id = p.client_id
			  WHERE p.status = 'completed'
			    AND p.payment_date BETWEEN $1 AND $2
			    AND ($3::text = '' OR p.currency = $3)
			  ORDER BY p.payment_date DESC, p.id DESC`
	rows, err := s.DB.QueryContext(ctx, query, f.Start, f.End, f.Currency)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.RevenueItem, 0)
	for rows.Next() {
		var it models.RevenueItem
		if err := rows.Scan(&it.ID, &it.ClientID, &it.Amount, &it.Currency, &it.PaymentDate, &it.ClientName); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// ExpenseItems возвращает оплаченные расходы периода, новые первыми.
func (s *Storage) ExpenseItems(ctx context.Context, f models.ReportFilter) ([]models.ExpenseItem, error) {
	const op = "storage.ExpenseItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, type, description, amount, currency, paid_date, vendor, category
			  FROM expenses
			  WHERE status = 'paid'
			    AND paid_date BETWEEN $1 AND $2
			    AND ($3::text = '' OR currency = $3)
			    AND ($4::text = '' OR type = $4)
			  ORDER BY paid_date DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, f.Start, f.End, f.Currency, f.Type)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.ExpenseItem, 0)
	for rows.Next() {
		var it models.ExpenseItem
		if err := rows.Scan(&it.ID, &it.Type, &it.Description, &it.Amount, &it.Currency, &it.PaidDate,
			&it.Vendor, &it.Category); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// ExpenseTotalsByType группирует оплаченные расходы периода по типу.
func (s *Storage) ExpenseTotalsByType(ctx context.Context, f models.ReportFilter) ([]models.ExpenseTypeTotal, error) {
	const op = "storage.ExpenseTotalsByType"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT type, COALESCE(SUM(amount), 0), COUNT(*)
			  FROM expenses
			  WHERE status = 'paid'
			    AND paid_date BETWEEN $1 AND $2
			    AND ($3::text = '' OR currency = $3)
			    AND ($4::text = '' OR type = $4)
			  GROUP BY type
			  ORDER BY type`
	rows, err := s.DB.QueryContext(ctx, query, f.Start, f.End, f.Currency, f.Type)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.ExpenseTypeTotal, 0)
	for rows.Next() {
		var t models.ExpenseTypeTotal
		if err := rows.Scan(&t.Type, &t.Total, &t.Count); err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}
