package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-admin/internal/cache"
	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateExchangeRate(ctx context.Context, req models.ExchangeRateRequest) (*models.ExchangeRate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

func (m *RepoMock) GetExchangeRate(ctx context.Context, id int64) (*models.ExchangeRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

func (m *RepoMock) ListExchangeRates(ctx context.Context) ([]models.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ExchangeRate), args.Error(1)
}

func (m *RepoMock) LatestExchangeRate(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

func (m *RepoMock) UpdateExchangeRate(ctx context.Context, id int64, req models.ExchangeRateRequest) (*models.ExchangeRate, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

func (m *RepoMock) DeleteExchangeRate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// newRedisCache поднимает настоящий кеш поверх miniredis.
func newRedisCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()}), TTL: time.Hour}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRates() []models.ExchangeRate {
	return []models.ExchangeRate{
		{ID: 2, FromCurrency: "USD", ToCurrency: "UZS", Rate: decimal.NewFromInt(12500), EffectiveDate: day(time.June, 1)},
		{ID: 1, FromCurrency: "USD", ToCurrency: "UZS", Rate: decimal.NewFromInt(12000), EffectiveDate: day(time.January, 1)},
	}
}

func TestExchangeRateService_ListIsCached(t *testing.T) {
	c, mr := newRedisCache(t)
	repo := new(RepoMock)
	repo.On("ListExchangeRates", mock.Anything).Return(sampleRates(), nil).Once()

	svc := NewExchangeRateService(repo, c, newNoopLogger())

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, mr.Exists(ratesKey))

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.True(t, second[0].Rate.Equal(decimal.NewFromInt(12500)))

	repo.AssertNumberOfCalls(t, "ListExchangeRates", 1)
}

func TestExchangeRateService_WritesInvalidate(t *testing.T) {
	c, mr := newRedisCache(t)
	repo := new(RepoMock)
	svc := NewExchangeRateService(repo, c, newNoopLogger())

	req := models.ExchangeRateRequest{FromCurrency: "USD", ToCurrency: "UZS", Rate: decimal.NewFromInt(12600), EffectiveDate: day(time.July, 1)}
	repo.On("CreateExchangeRate", mock.Anything, req).
		Return(&models.ExchangeRate{ID: 3, FromCurrency: "USD", ToCurrency: "UZS", Rate: req.Rate}, nil).Once()
	repo.On("DeleteExchangeRate", mock.Anything, int64(3)).Return(nil).Once()

	require.NoError(t, mr.Set(ratesKey, "[]"))
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, mr.Exists(ratesKey))

	require.NoError(t, mr.Set(ratesKey, "[]"))
	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.False(t, mr.Exists(ratesKey))
}

func TestExchangeRateService_CreateValidation(t *testing.T) {
	c, _ := newRedisCache(t)
	repo := new(RepoMock)
	svc := NewExchangeRateService(repo, c, newNoopLogger())

	_, err := svc.Create(context.Background(), models.ExchangeRateRequest{
		FromCurrency: "USD", ToCurrency: "EUR", Rate: decimal.Zero, EffectiveDate: day(time.July, 1),
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	fields, _ := apperr.FieldErrors(err)
	assert.Contains(t, fields, "toCurrency")
	assert.Contains(t, fields, "rate")
	repo.AssertNotCalled(t, "CreateExchangeRate", mock.Anything, mock.Anything)
}

func TestExchangeRateService_Convert(t *testing.T) {
	tests := []struct {
		name          string
		amount        decimal.Decimal
		from, to      string
		asOf          time.Time
		wantRate      decimal.Decimal
		wantConverted decimal.Decimal
	}{
		{
			name: "nearest rate", amount: decimal.NewFromInt(10), from: "USD", to: "UZS", asOf: day(time.March, 1),
			wantRate: decimal.NewFromInt(12000), wantConverted: decimal.NewFromInt(120000),
		},
		{
			name: "same currency", amount: decimal.NewFromInt(10), from: "UZS", to: "UZS", asOf: day(time.March, 1),
			wantRate: decimal.NewFromInt(1), wantConverted: decimal.NewFromInt(10),
		},
		{
			name: "missing pair is zero", amount: decimal.NewFromInt(10), from: "UZS", to: "USD", asOf: day(time.March, 1),
			wantRate: decimal.Zero, wantConverted: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newRedisCache(t)
			repo := new(RepoMock)
			repo.On("ListExchangeRates", mock.Anything).Return(sampleRates(), nil).Once()

			got, err := NewExchangeRateService(repo, c, newNoopLogger()).
				Convert(context.Background(), tt.amount, tt.from, tt.to, tt.asOf)
			require.NoError(t, err)
			assert.True(t, tt.wantRate.Equal(got.Rate), "rate %s", got.Rate)
			assert.True(t, tt.wantConverted.Equal(got.Converted), "converted %s", got.Converted)
		})
	}
}

func TestExchangeRateService_ConvertRejectsUnknownCurrency(t *testing.T) {
	c, _ := newRedisCache(t)
	repo := new(RepoMock)

	_, err := NewExchangeRateService(repo, c, newNoopLogger()).
		Convert(context.Background(), decimal.NewFromInt(1), "EUR", "USD", day(time.March, 1))
	require.ErrorIs(t, err, apperr.ErrValidation)
	fields, _ := apperr.FieldErrors(err)
	assert.Contains(t, fields, "from")
}

func TestExchangeRateService_RepositoryError(t *testing.T) {
	c, _ := newRedisCache(t)
	repo := new(RepoMock)
	repo.On("ListExchangeRates", mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := NewExchangeRateService(repo, c, newNoopLogger()).List(context.Background())
	assert.Error(t, err)
}

func TestExchangeRateService_UpdateMergesPatch(t *testing.T) {
	c, _ := newRedisCache(t)
	repo := new(RepoMock)
	existing := &models.ExchangeRate{ID: 1, FromCurrency: "USD", ToCurrency: "UZS", Rate: decimal.NewFromInt(12000), EffectiveDate: day(time.January, 1)}
	newRate := decimal.NewFromInt(12100)
	repo.On("GetExchangeRate", mock.Anything, int64(1)).Return(existing, nil).Once()
	repo.On("UpdateExchangeRate", mock.Anything, int64(1), mock.MatchedBy(func(req models.ExchangeRateRequest) bool {
		return req.Rate.Equal(newRate) && req.FromCurrency == "USD" && req.EffectiveDate.Equal(day(time.January, 1))
	})).Return(existing, nil).Once()

	_, err := NewExchangeRateService(repo, c, newNoopLogger()).
		Update(context.Background(), 1, models.ExchangeRatePatch{Rate: &newRate})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
