// Package services содержит бизнес-логику работы с клиентами и кеширование карточек клиента.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/lib/validate"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// ClientRepository определяет методы хранилища клиентов.
type ClientRepository interface {
	CreateClient(ctx context.Context, req models.ClientRequest) (*models.Client, error)
	GetClient(ctx context.Context, id int64) (*models.Client, error)
	ListClients(ctx context.Context, filter models.ClientFilter) ([]models.Client, error)
	UpdateClient(ctx context.Context, id int64, req models.ClientRequest) (*models.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш; нулевой expiration означает TTL по умолчанию.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет ключи из кеша.
	Invalidate(ctx context.Context, keys ...string) error
}

// ClientService реализует CRUD клиентов с кешированием чтения по ID.
type ClientService struct {
	repo     ClientRepository
	cache    Cache
	log      *slog.Logger
	validate *validator.Validate
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, cache Cache, log *slog.Logger) *ClientService {
	return &ClientService{
		repo:     repo,
		cache:    cache,
		log:      log,
		validate: validate.New(),
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("client:%d", id)
}

// Create проверяет запрос и сохраняет клиента.
func (s *ClientService) Create(ctx context.Context, req models.ClientRequest) (*models.Client, error) {
	const op = "services.CreateClient"
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client, err := s.repo.CreateClient(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new client", slog.Int64("id", client.ID))

	s.put(ctx, client)
	return client, nil
}

// Get возвращает клиента из кеша или из хранилища.
func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	const op = "services.GetClient"
	key := cacheKey(id)

	var cached models.Client
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.put(ctx, client)
	return client, nil
}

// List возвращает клиентов, отфильтрованных по строке поиска.
func (s *ClientService) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, error) {
	const op = "services.ListClients"
	clients, err := s.repo.ListClients(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

// Update накладывает патч на сохранённого клиента и проверяет результат
// теми же правилами, что и при создании.
func (s *ClientService) Update(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error) {
	const op = "services.UpdateClient"
	existing, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req := models.ClientRequestFrom(existing)
	patch.Apply(&req)
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client, err := s.repo.UpdateClient(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	return client, nil
}

// Delete удаляет клиента вместе с его подписками и платежами.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	const op = "services.DeleteClient"
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted client", slog.Int64("id", id))
	s.invalidate(ctx, id)
	return nil
}

func (s *ClientService) put(ctx context.Context, client *models.Client) {
	key := cacheKey(client.ID)
	if err := s.cache.Set(ctx, key, client, 0); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", key), sl.Err(err))
	}
}

func (s *ClientService) invalidate(ctx context.Context, id int64) {
	key := cacheKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}
