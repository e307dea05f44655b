// Package services читает и изменяет настройки уведомлений пользователя.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/lib/validate"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// SettingsRepository - хранилище настроек.
type SettingsRepository interface {
	GetNotificationSettings(ctx context.Context, userID int64) (*models.NotificationSettings, error)
	UpsertNotificationSettings(ctx context.Context, ns models.NotificationSettings) (*models.NotificationSettings, error)
}

// SettingsService - настройки уведомлений.
type SettingsService struct {
	repo     SettingsRepository
	log      *slog.Logger
	validate *validator.Validate
}

// NewSettingsService создает новый экземпляр SettingsService.
func NewSettingsService(repo SettingsRepository, log *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		log:      log,
		validate: validate.New(),
	}
}

// Get возвращает настройки; при отсутствии строки - значения по умолчанию.
func (s *SettingsService) Get(ctx context.Context, userID int64) (*models.NotificationSettings, error) {
	const op = "services.GetSettings"
	ns, err := s.repo.GetNotificationSettings(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		defaults := models.DefaultNotificationSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ns, nil
}

// Update накладывает патч на текущие настройки и сохраняет результат.
func (s *SettingsService) Update(ctx context.Context, userID int64, patch models.NotificationSettingsPatch) (*models.NotificationSettings, error) {
	const op = "services.UpdateSettings"
	if err := validate.Struct(s.validate, patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	patch.Apply(current)
	current.UserID = userID

	saved, err := s.repo.UpsertNotificationSettings(ctx, *current)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("notification settings updated", slog.Int64("user_id", userID))
	return saved, nil
}
