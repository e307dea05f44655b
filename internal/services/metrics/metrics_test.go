package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) SumMRR(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *RepoMock) CountActiveSubscriptions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) CountClients(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) SumPayments(ctx context.Context, status string, from, to time.Time, currency string) (models.SumCount, error) {
	args := m.Called(ctx, status, from, to, currency)
	return args.Get(0).(models.SumCount), args.Error(1)
}

func (m *RepoMock) SumPaidExpenses(ctx context.Context, from, to time.Time, currency, expenseType string) (models.SumCount, error) {
	args := m.Called(ctx, from, to, currency, expenseType)
	return args.Get(0).(models.SumCount), args.Error(1)
}

func (m *RepoMock) SumPendingExpensesDue(ctx context.Context, from, to time.Time) (models.SumCount, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(models.SumCount), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func sc(sum int64, count int64) models.SumCount {
	return models.SumCount{Sum: decimal.NewFromInt(sum), Count: count}
}

func TestMetricsService_GetMetrics(t *testing.T) {
	repo := new(RepoMock)
	monthStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := time.Date(2024, time.March, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	repo.On("SumMRR", mock.Anything).Return(decimal.NewFromInt(1500), nil).Once()
	repo.On("CountActiveSubscriptions", mock.Anything).Return(int64(12), nil).Once()
	repo.On("CountClients", mock.Anything).Return(int64(9), nil).Once()
	repo.On("SumPayments", mock.Anything, models.PaymentStatusCompleted, monthStart, dayEnd, "").
		Return(sc(5000, 20), nil).Once()
	repo.On("SumPaidExpenses", mock.Anything, monthStart, dayEnd, "", "").
		Return(sc(1200, 4), nil).Once()
	repo.On("SumPayments", mock.Anything, models.PaymentStatusOverdue, time.Time{}, time.Time{}, "").
		Return(sc(300, 2), nil).Once()
	repo.On("SumPendingExpensesDue", mock.Anything, fixedNow, fixedNow.Add(7*24*time.Hour)).
		Return(sc(80, 1), nil).Once()

	svc := NewMetricsService(repo, newNoopLogger())
	svc.now = func() time.Time { return fixedNow }

	got, err := svc.GetMetrics(context.Background(), "this_month", nil, nil)
	require.NoError(t, err)
	repo.AssertExpectations(t)

	assert.True(t, got.TotalMRR.Equal(decimal.NewFromInt(1500)))
	assert.True(t, got.PaymentsReceived.Equal(decimal.NewFromInt(5000)))
	assert.EqualValues(t, 20, got.PaymentsCount)
	assert.True(t, got.TotalExpenses.Equal(decimal.NewFromInt(1200)))
	assert.True(t, got.NetProfit.Equal(decimal.NewFromInt(3800)))
	assert.EqualValues(t, 12, got.ActiveSubscriptions)
	assert.EqualValues(t, 9, got.ClientsCount)
	assert.True(t, got.OverduePayments.Equal(decimal.NewFromInt(300)))
	assert.EqualValues(t, 2, got.OverduePaymentsCount)
	assert.True(t, got.UpcomingExpenses.Equal(decimal.NewFromInt(80)))
	assert.EqualValues(t, 1, got.UpcomingExpensesCount)

	assert.Equal(t, "this_month", got.DateRange.Type)
	assert.True(t, monthStart.Equal(got.DateRange.StartDate))
	assert.True(t, dayEnd.Equal(got.DateRange.EndDate))
}

func TestMetricsService_UnknownTokenIsToday(t *testing.T) {
	repo := new(RepoMock)
	repo.On("SumMRR", mock.Anything).Return(decimal.Zero, nil)
	repo.On("CountActiveSubscriptions", mock.Anything).Return(int64(0), nil)
	repo.On("CountClients", mock.Anything).Return(int64(0), nil)
	repo.On("SumPayments", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "").Return(sc(0, 0), nil)
	repo.On("SumPaidExpenses", mock.Anything, mock.Anything, mock.Anything, "", "").Return(sc(0, 0), nil)
	repo.On("SumPendingExpensesDue", mock.Anything, mock.Anything, mock.Anything).Return(sc(0, 0), nil)

	svc := NewMetricsService(repo, newNoopLogger())
	svc.now = func() time.Time { return fixedNow }

	got, err := svc.GetMetrics(context.Background(), "fortnight", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "today", got.DateRange.Type)
	assert.Equal(t, 15, got.DateRange.StartDate.Day())
	assert.True(t, got.NetProfit.IsZero())
}

func TestMetricsService_CustomRange(t *testing.T) {
	repo := new(RepoMock)
	from := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 20, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	repo.On("SumMRR", mock.Anything).Return(decimal.Zero, nil)
	repo.On("CountActiveSubscriptions", mock.Anything).Return(int64(0), nil)
	repo.On("CountClients", mock.Anything).Return(int64(0), nil)
	repo.On("SumPayments", mock.Anything, models.PaymentStatusCompleted, from, end, "").Return(sc(10, 1), nil).Once()
	repo.On("SumPayments", mock.Anything, models.PaymentStatusOverdue, time.Time{}, time.Time{}, "").Return(sc(0, 0), nil).Once()
	repo.On("SumPaidExpenses", mock.Anything, from, end, "", "").Return(sc(30, 1), nil).Once()
	repo.On("SumPendingExpensesDue", mock.Anything, mock.Anything, mock.Anything).Return(sc(0, 0), nil)

	svc := NewMetricsService(repo, newNoopLogger())
	svc.now = func() time.Time { return fixedNow }

	got, err := svc.GetMetrics(context.Background(), "custom", &from, &to)
	require.NoError(t, err)
	assert.True(t, got.NetProfit.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, "custom", got.DateRange.Type)
}

func TestMetricsService_StorageErrorPropagates(t *testing.T) {
	repo := new(RepoMock)
	repo.On("SumMRR", mock.Anything).Return(decimal.Zero, errors.New("db down"))
	repo.On("CountActiveSubscriptions", mock.Anything).Return(int64(0), nil).Maybe()
	repo.On("CountClients", mock.Anything).Return(int64(0), nil).Maybe()
	repo.On("SumPayments", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sc(0, 0), nil).Maybe()
	repo.On("SumPaidExpenses", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(sc(0, 0), nil).Maybe()
	repo.On("SumPendingExpensesDue", mock.Anything, mock.Anything, mock.Anything).Return(sc(0, 0), nil).Maybe()

	_, err := NewMetricsService(repo, newNoopLogger()).GetMetrics(context.Background(), "today", nil, nil)
	assert.ErrorContains(t, err, "db down")
}
