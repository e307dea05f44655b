package repository

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      error
		wantField string
	}{
		{name: "no rows", err: sql.ErrNoRows, want: apperr.ErrNotFound},
		{name: "unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}, want: apperr.ErrConflict},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503", ConstraintName: "payments_client_id_fkey"}, want: apperr.ErrValidation, wantField: "clientId"},
		{name: "check", err: &pgconn.PgError{Code: "23514", ConstraintName: "subscriptions_billing_cycle_check"}, want: apperr.ErrValidation, wantField: "billingCycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrap("storage.Test", tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), "storage.Test")
			if tt.wantField != "" {
				fields, ok := apperr.FieldErrors(got)
				assert.True(t, ok)
				assert.Contains(t, fields, tt.wantField)
			}
		})
	}

	other := errors.New("connection reset")
	assert.ErrorIs(t, wrap("storage.Test", other), other)
}

type rowsResult int64

func (r rowsResult) LastInsertId() (int64, error) { return 0, nil }
func (r rowsResult) RowsAffected() (int64, error) { return int64(r), nil }

func TestAffected(t *testing.T) {
	assert.ErrorIs(t, affected("storage.Delete", rowsResult(0)), apperr.ErrNotFound)
	assert.NoError(t, affected("storage.Delete", rowsResult(1)))
}

func TestCamel(t *testing.T) {
	assert.Equal(t, "subscriptionId", camel("subscription_id"))
	assert.Equal(t, "amount", camel("amount"))
}
