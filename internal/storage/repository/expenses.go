package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

const expenseColumns = `id, type, description, amount, currency, due_date, paid_date, status,
			      recurring, recurring_interval, vendor, category, notes, created_at, updated_at`

func scanExpense(row scanner) (*models.Expense, error) {
	var e models.Expense
	if err := row.Scan(&e.ID, &e.Type, &e.Description, &e.Amount, &e.Currency, &e.DueDate, &e.PaidDate,
		&e.Status, &e.Recurring, &e.RecurringInterval, &e.Vendor, &e.Category, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateExpense сохраняет расход с уже вычисленным статусом.
func (s *Storage) CreateExpense(ctx context.Context, req models.ExpenseRequest, status string) (*models.Expense, error) {
	const op = "storage.CreateExpense"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO expenses (type, description, amount, currency, due_date, paid_date, status,
			      recurring, recurring_interval, vendor, category, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING ` + expenseColumns
	e, err := scanExpense(s.DB.QueryRowContext(ctx, query,
		req.Type, req.Description, req.Amount, req.Currency, req.DueDate, req.PaidDate, status,
		req.Recurring, req.RecurringInterval, req.Vendor, req.Category, req.Notes))
	if err != nil {
		return nil, wrap(op, err)
	}
	return e, nil
}

// GetExpense возвращает расход по ID.
func (s *Storage) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	const op = "storage.GetExpense"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	e, err := scanExpense(s.DB.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return e, nil
}

// ListExpenses возвращает расходы. Search ищет по описанию и поставщику.
func (s *Storage) ListExpenses(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	const op = "storage.ListExpenses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + expenseColumns + `
			  FROM expenses
			  WHERE ($1::text = '' OR description ILIKE '%' || $1 || '%' OR vendor ILIKE '%' || $1 || '%')
			    AND ($2::text = '' OR type = $2)
			    AND ($3::text = '' OR status = $3)
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, filter.Search, filter.Type, filter.Status)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdateExpense перезаписывает поля расхода со статусом status.
func (s *Storage) UpdateExpense(ctx context.Context, id int64, req models.ExpenseRequest, status string) (*models.Expense, error) {
	const op = "storage.UpdateExpense"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE expenses
			  SET type = $1, description = $2, amount = $3, currency = $4, due_date = $5, paid_date = $6,
			      status = $7, recurring = $8, recurring_interval = $9, vendor = $10, category = $11,
			      notes = $12, updated_at = now()
			  WHERE id = $13
			  RETURNING ` + expenseColumns
	e, err := scanExpense(s.DB.QueryRowContext(ctx, query,
		req.Type, req.Description, req.Amount, req.Currency, req.DueDate, req.PaidDate, status,
		req.Recurring, req.RecurringInterval, req.Vendor, req.Category, req.Notes, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return e, nil
}

// DeleteExpense удаляет расход.
func (s *Storage) DeleteExpense(ctx context.Context, id int64) error {
	const op = "storage.DeleteExpense"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// SumPaidExpenses суммирует оплаченные расходы с paid_date в [from, to].
func (s *Storage) SumPaidExpenses(ctx context.Context, from, to time.Time, currency, expenseType string) (models.SumCount, error) {
	const op = "storage.SumPaidExpenses"
	select {
	case <-ctx.Done():
		return models.SumCount{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0), COUNT(*)
			  FROM expenses
			  WHERE status = 'paid'
			    AND paid_date BETWEEN $1 AND $2
			    AND ($3::text = '' OR currency = $3)
			    AND ($4::text = '' OR type = $4)`
	var sc models.SumCount
	if err := s.DB.QueryRowContext(ctx, query, from, to, currency, expenseType).
		Scan(&sc.Sum, &sc.Count); err != nil {
		return models.SumCount{}, wrap(op, err)
	}
	return sc, nil
}

// SumPendingExpensesDue суммирует ожидающие расходы со сроком в [from, to].
func (s *Storage) SumPendingExpensesDue(ctx context.Context, from, to time.Time) (models.SumCount, error) {
	const op = "storage.SumPendingExpensesDue"
	select {
	case <-ctx.Done():
		return models.SumCount{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0), COUNT(*)
			  FROM expenses
			  WHERE status = 'pending' AND due_date BETWEEN $1 AND $2`
	var sc models.SumCount
	if err := s.DB.QueryRowContext(ctx, query, from, to).Scan(&sc.Sum, &sc.Count); err != nil {
		return models.SumCount{}, wrap(op, err)
	}
	return sc, nil
}

// ExpensesDue возвращает ожидающие расходы со сроком в [from, to].
func (s *Storage) ExpensesDue(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	const op = "storage.ExpensesDue"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + expenseColumns + `
			  FROM expenses
			  WHERE status = 'pending' AND due_date BETWEEN $1 AND $2
			  ORDER BY due_date, id`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// MarkOverdueExpenses переводит в overdue ожидающие расходы со сроком раньше before.
// Планировщик передаёт начало текущего дня: расход со сроком сегодня ещё не просрочен.
func (s *Storage) MarkOverdueExpenses(ctx context.Context, before time.Time) (int64, error) {
	const op = "storage.MarkOverdueExpenses"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE expenses
			  SET status = 'overdue', updated_at = now()
			  WHERE status = 'pending' AND due_date < $1`, before)
	if err != nil {
		return 0, wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}
