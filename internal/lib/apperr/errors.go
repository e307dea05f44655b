// Package apperr описывает таксономию ошибок приложения.
//
// Хранилище и сервисы оборачивают свои ошибки через fmt.Errorf("%s: %w", op, err),
// поэтому HTTP-слой определяет код ответа через errors.Is по сентинелам ниже.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation - входные данные некорректны.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound - запрошенная сущность отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrConflict - нарушение уникальности.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized - неверные учётные данные или токен.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError содержит сообщения по каждому полю.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError создаёт ошибку валидации с одним полем.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

// Unwrap позволяет errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldErrors извлекает сообщения по полям из цепочки ошибок.
func FieldErrors(err error) (map[string]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
