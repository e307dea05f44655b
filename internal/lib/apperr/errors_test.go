package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Unwrap(t *testing.T) {
	err := fmt.Errorf("services.client.Create: %w", NewValidationError("name", "is required"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["name"])
}

func TestValidationError_ErrorIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"currency": "must be one of USD UZS",
		"amount":   "must be greater than or equal to 0",
	}}

	assert.Equal(t,
		"validation failed: amount: must be greater than or equal to 0, currency: must be one of USD UZS",
		err.Error())
}

func TestFieldErrors_NotValidation(t *testing.T) {
	_, ok := FieldErrors(fmt.Errorf("op: %w", ErrNotFound))
	assert.False(t, ok)
}
