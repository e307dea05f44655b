// Package services содержит бизнес-логику управления подписками клиентов.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/billing-admin/internal/lib/validate"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription сохраняет подписку с уже вычисленным статусом.
	CreateSubscription(ctx context.Context, req models.SubscriptionRequest, status string) (*models.Subscription, error)
	// GetSubscription возвращает подписку по ID.
	GetSubscription(ctx context.Context, id int64) (*models.Subscription, error)
	// ListSubscriptions возвращает подписки по фильтру.
	ListSubscriptions(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, error)
	// UpdateSubscription перезаписывает подписку.
	UpdateSubscription(ctx context.Context, id int64, req models.SubscriptionRequest, status string) (*models.Subscription, error)
	// DeleteSubscription удаляет подписку; платежи остаются без привязки.
	DeleteSubscription(ctx context.Context, id int64) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo     SubscriptionRepository
	log      *slog.Logger
	validate *validator.Validate
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		log:      log,
		validate: validate.New(),
	}
}

// Create сохраняет подписку. Статус выводится один раз: trial при заданной
// дате окончания пробного периода, иначе active.
func (s *SubscriptionService) Create(ctx context.Context, req models.SubscriptionRequest) (*models.Subscription, error) {
	const op = "services.CreateSubscription"
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub, err := s.repo.CreateSubscription(ctx, req, req.InitialStatus())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new subscription", slog.Int64("id", sub.ID), slog.String("status", sub.Status))
	return sub, nil
}

// Get возвращает подписку по ID.
func (s *SubscriptionService) Get(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "services.GetSubscription"
	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// List возвращает подписки по фильтру.
func (s *SubscriptionService) List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, error) {
	const op = "services.ListSubscriptions"
	subs, err := s.repo.ListSubscriptions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return subs, nil
}

// Update накладывает патч на подписку. Статус меняется только явным полем status.
func (s *SubscriptionService) Update(ctx context.Context, id int64, patch models.SubscriptionPatch) (*models.Subscription, error) {
	const op = "services.UpdateSubscription"
	if err := validate.Struct(s.validate, patch); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req := models.SubscriptionRequestFrom(existing)
	patch.Apply(&req)
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := existing.Status
	if patch.Status != nil {
		status = *patch.Status
	}

	sub, err := s.repo.UpdateSubscription(ctx, id, req, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// Delete удаляет подписку.
func (s *SubscriptionService) Delete(ctx context.Context, id int64) error {
	const op = "services.DeleteSubscription"
	if err := s.repo.DeleteSubscription(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted subscription", slog.Int64("id", id))
	return nil
}
