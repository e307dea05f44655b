package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// RecipientResolver находит адресата плановых уведомлений.
// nil без ошибки означает, что адресата нет.
type RecipientResolver interface {
	Resolve(ctx context.Context) (*models.Recipient, error)
}

// UserRepository — пользователи и их настройки.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	FirstUser(ctx context.Context) (*models.User, error)
	GetNotificationSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error)
}

// UserRecipient выбирает пользователя по имени из конфигурации, а при пустом
// имени берёт первого пользователя. Чат и настройки читаются при каждом вызове,
// поэтому изменения вступают в силу со следующего запуска задачи.
type UserRecipient struct {
	users    UserRepository
	username string
}

// NewUserRecipient создает резолвер адресата.
func NewUserRecipient(users UserRepository, username string) *UserRecipient {
	return &UserRecipient{users: users, username: username}
}

// Resolve возвращает адресата с текущими настройками.
func (r *UserRecipient) Resolve(ctx context.Context) (*models.Recipient, error) {
	const op = "services.Resolve"

	var (
		user *models.User
		err  error
	)
	if r.username != "" {
		user, err = r.users.GetUserByUsername(ctx, r.username)
	} else {
		user, err = r.users.FirstUser(ctx)
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	settings, err := r.users.GetNotificationSettings(ctx, user.ID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		defaults := models.DefaultNotificationSettings(user.ID)
		settings = &defaults
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Recipient{
		UserID:   user.ID,
		Username: user.Username,
		ChatID:   user.TelegramChatID,
		Settings: *settings,
	}, nil
}
