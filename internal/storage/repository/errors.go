package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
)

// wrap переводит ошибки драйвера в таксономию apperr и добавляет op.
func wrap(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, apperr.ErrConflict, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, apperr.NewValidationError(constraintField(pgErr.ConstraintName), "references a missing record"))
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%s: %w", op, apperr.NewValidationError(constraintField(pgErr.ConstraintName), "is not valid"))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// constraintField извлекает имя поля из имени ограничения,
// например payments_client_id_fkey -> clientId.
func constraintField(constraint string) string {
	for _, col := range []string{
		"subscription_id", "client_id", "user_id", "billing_cycle", "from_currency", "to_currency",
		"renewal_reminder_days", "currency", "status", "type", "amount", "rate",
	} {
		if strings.Contains(constraint, col) {
			return camel(col)
		}
	}
	return constraint
}

func camel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// affected возвращает ErrNotFound, если запрос не изменил ни одной строки.
func affected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	return nil
}
