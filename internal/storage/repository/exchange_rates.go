package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

const exchangeRateColumns = `id, from_currency, to_currency, rate, effective_date, created_at`

func scanExchangeRate(row scanner) (*models.ExchangeRate, error) {
	var r models.ExchangeRate
	if err := row.Scan(&r.ID, &r.FromCurrency, &r.ToCurrency, &r.Rate, &r.EffectiveDate, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateExchangeRate сохраняет курс.
func (s *Storage) CreateExchangeRate(ctx context.Context, req models.ExchangeRateRequest) (*models.ExchangeRate, error) {
	const op = "storage.CreateExchangeRate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO exchange_rates (from_currency, to_currency, rate, effective_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + exchangeRateColumns
	r, err := scanExchangeRate(s.DB.QueryRowContext(ctx, query,
		req.FromCurrency, req.ToCurrency, req.Rate, req.EffectiveDate))
	if err != nil {
		return nil, wrap(op, err)
	}
	return r, nil
}

// GetExchangeRate возвращает курс по ID.
func (s *Storage) GetExchangeRate(ctx context.Context, id int64) (*models.ExchangeRate, error) {
	const op = "storage.GetExchangeRate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	r, err := scanExchangeRate(s.DB.QueryRowContext(ctx,
		`SELECT `+exchangeRateColumns+` FROM exchange_rates WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return r, nil
}

// ListExchangeRates возвращает все курсы, новые первыми.
func (s *Storage) ListExchangeRates(ctx context.Context) ([]models.ExchangeRate, error) {
	const op = "storage.ListExchangeRates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+exchangeRateColumns+` FROM exchange_rates ORDER BY effective_date DESC, id DESC`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.ExchangeRate, 0)
	for rows.Next() {
		r, err := scanExchangeRate(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// LatestExchangeRate возвращает последний по дате курс пары.
func (s *Storage) LatestExchangeRate(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	const op = "storage.LatestExchangeRate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + exchangeRateColumns + `
			  FROM exchange_rates
			  WHERE from_currency = $1 AND to_currency = $2
			  ORDER BY effective_date DESC, id DESC
			  LIMIT 1`
	r, err := scanExchangeRate(s.DB.QueryRowContext(ctx, query, from, to))
	if err != nil {
		return nil, wrap(op, err)
	}
	return r, nil
}

// UpdateExchangeRate перезаписывает курс.
func (s *Storage) UpdateExchangeRate(ctx context.Context, id int64, req models.ExchangeRateRequest) (*models.ExchangeRate, error) {
	const op = "storage.UpdateExchangeRate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE exchange_rates
			  SET from_currency = $1, to_currency = $2, rate = $3, effective_date = $4
			  WHERE id = $5
			  RETURNING ` + exchangeRateColumns
	r, err := scanExchangeRate(s.DB.QueryRowContext(ctx, query,
		req.FromCurrency, req.ToCurrency, req.Rate, req.EffectiveDate, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return r, nil
}

// DeleteExchangeRate удаляет курс.
func (s *Storage) DeleteExchangeRate(ctx context.Context, id int64) error {
	const op = "storage.DeleteExchangeRate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM exchange_rates WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}
