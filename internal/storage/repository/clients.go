package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

const clientColumns = `id, name, email, phone, company, notes, created_at, updated_at`

func scanClient(row scanner) (*models.Client, error) {
	var c models.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateClient сохраняет клиента и возвращает созданную запись.
func (s *Storage) CreateClient(ctx context.Context, req models.ClientRequest) (*models.Client, error) {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (name, email, phone, company, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + clientColumns
	c, err := scanClient(s.DB.QueryRowContext(ctx, query,
		req.Name, req.Email, req.Phone, req.Company, req.Notes))
	if err != nil {
		return nil, wrap(op, err)
	}
	return c, nil
}

// GetClient возвращает клиента по ID.
func (s *Storage) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	const op = "storage.GetClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return c, nil
}

// ListClients возвращает клиентов в порядке создания.
// Search ищет без учёта регистра по имени, email и компании.
func (s *Storage) ListClients(ctx context.Context, filter models.ClientFilter) ([]models.Client, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + clientColumns + `
			  FROM clients
			  WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%'
			      OR email ILIKE '%' || $1 || '%'
			      OR company ILIKE '%' || $1 || '%')
			  ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, filter.Search)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdateClient перезаписывает поля клиента.
func (s *Storage) UpdateClient(ctx context.Context, id int64, req models.ClientRequest) (*models.Client, error) {
	const op = "storage.UpdateClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clients
			  SET name = $1, email = $2, phone = $3, company = $4, notes = $5, updated_at = now()
			  WHERE id = $6
			  RETURNING ` + clientColumns
	c, err := scanClient(s.DB.QueryRowContext(ctx, query,
		req.Name, req.Email, req.Phone, req.Company, req.Notes, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return c, nil
}

// DeleteClient удаляет клиента вместе с его подписками и платежами.
func (s *Storage) DeleteClient(ctx context.Context, id int64) error {
	const op = "storage.DeleteClient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// CountClients возвращает общее число клиентов.
func (s *Storage) CountClients(ctx context.Context) (int64, error) {
	const op = "storage.CountClients"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var n int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}
