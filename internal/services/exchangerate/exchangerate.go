// Package services содержит бизнес-логику курсов валют: CRUD, кеш полного списка
// и конвертацию сумм по ближайшему курсу.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/lib/currency"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/lib/validate"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// ratesKey — ключ кеша со всеми курсами.
const ratesKey = "exchange_rates:all"

// ExchangeRateRepository определяет методы хранилища курсов.
type ExchangeRateRepository interface {
	CreateExchangeRate(ctx context.Context, req models.ExchangeRateRequest) (*models.ExchangeRate, error)
	GetExchangeRate(ctx context.Context, id int64) (*models.ExchangeRate, error)
	ListExchangeRates(ctx context.Context) ([]models.ExchangeRate, error)
	LatestExchangeRate(ctx context.Context, from, to string) (*models.ExchangeRate, error)
	UpdateExchangeRate(ctx context.Context, id int64, req models.ExchangeRateRequest) (*models.ExchangeRate, error)
	DeleteExchangeRate(ctx context.Context, id int64) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// ExchangeRateService управляет курсами валют.
type ExchangeRateService struct {
	repo     ExchangeRateRepository
	cache    Cache
	log      *slog.Logger
	validate *validator.Validate
}

// NewExchangeRateService создает новый экземпляр ExchangeRateService.
func NewExchangeRateService(repo ExchangeRateRepository, cache Cache, log *slog.Logger) *ExchangeRateService {
	return &ExchangeRateService{
		repo:     repo,
		cache:    cache,
		log:      log,
		validate: validate.New(),
	}
}

// Create сохраняет курс и сбрасывает кеш списка.
func (s *ExchangeRateService) Create(ctx context.Context, req models.ExchangeRateRequest) (*models.ExchangeRate, error) {
	const op = "services.CreateExchangeRate"
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rate, err := s.repo.CreateExchangeRate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created exchange rate",
		slog.String("pair", rate.FromCurrency+"/"+rate.ToCurrency),
		slog.String("rate", rate.Rate.String()),
	)
	s.invalidate(ctx)
	return rate, nil
}

// Get возвращает курс по ID.
func (s *ExchangeRateService) Get(ctx context.Context, id int64) (*models.ExchangeRate, error) {
	const op = "services.GetExchangeRate"
	rate, err := s.repo.GetExchangeRate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rate, nil
}

// List возвращает все курсы, новые первыми. Список кешируется целиком.
func (s *ExchangeRateService) List(ctx context.Context) ([]models.ExchangeRate, error) {
	const op = "services.ListExchangeRates"

	var cached []models.ExchangeRate
	found, err := s.cache.Get(ctx, ratesKey, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", ratesKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	rates, err := s.repo.ListExchangeRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rates == nil {
		rates = []models.ExchangeRate{}
	}
	if err := s.cache.Set(ctx, ratesKey, rates, 0); err != nil {
		s.log.Warn("failed to cache exchange rates", slog.String("key", ratesKey), sl.Err(err))
	}
	return rates, nil
}

// Rates возвращает список курсов для конвертации.
func (s *ExchangeRateService) Rates(ctx context.Context) ([]models.ExchangeRate, error) {
	return s.List(ctx)
}

// Latest возвращает курс пары с самой поздней датой.
func (s *ExchangeRateService) Latest(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	const op = "services.LatestExchangeRate"
	rate, err := s.repo.LatestExchangeRate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rate, nil
}

// Update накладывает патч на курс.
func (s *ExchangeRateService) Update(ctx context.Context, id int64, patch models.ExchangeRatePatch) (*models.ExchangeRate, error) {
	const op = "services.UpdateExchangeRate"
	existing, err := s.repo.GetExchangeRate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req := models.ExchangeRateRequestFrom(existing)
	patch.Apply(&req)
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rate, err := s.repo.UpdateExchangeRate(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	return rate, nil
}

// Delete удаляет курс.
func (s *ExchangeRateService) Delete(ctx context.Context, id int64) error {
	const op = "services.DeleteExchangeRate"
	if err := s.repo.DeleteExchangeRate(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	return nil
}

// Convert переводит amount из from в to по курсу, ближайшему к asOf.
// При отсутствии курса пары Rate и Converted равны нулю.
func (s *ExchangeRateService) Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf time.Time) (*models.Conversion, error) {
	const op = "services.Convert"
	fields := map[string]string{}
	if !currency.Supported(from) {
		fields["from"] = "must be one of: USD UZS"
	}
	if !currency.Supported(to) {
		fields["to"] = "must be one of: USD UZS"
	}
	if len(fields) > 0 {
		return nil, fmt.Errorf("%s: %w", op, &apperr.ValidationError{Fields: fields})
	}

	rates, err := s.Rates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rate := currency.FindRate(rates, from, to, asOf)
	return &models.Conversion{
		Amount:    amount,
		From:      from,
		To:        to,
		Rate:      rate,
		Converted: amount.Mul(rate),
		AsOf:      asOf,
	}, nil
}

func (s *ExchangeRateService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, ratesKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", ratesKey), sl.Err(err))
	}
}
