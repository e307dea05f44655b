// Package services собирает показатели главной панели.
//
// Снимки (MRR, активные подписки, клиенты, просроченные платежи) не зависят
// от диапазона; поступления и расходы считаются за выбранный период.
// Суммы складываются без конвертации валют.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/billing-admin/internal/lib/daterange"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// UpcomingWindow — горизонт «предстоящих расходов» от текущего момента.
const UpcomingWindow = 7 * 24 * time.Hour

// MetricsRepository — агрегирующие запросы, каждый выполняется независимо.
type MetricsRepository interface {
	SumMRR(ctx context.Context) (decimal.Decimal, error)
	CountActiveSubscriptions(ctx context.Context) (int64, error)
	CountClients(ctx context.Context) (int64, error)
	SumPayments(ctx context.Context, status string, from, to time.Time, currency string) (models.SumCount, error)
	SumPaidExpenses(ctx context.Context, from, to time.Time, currency, expenseType string) (models.SumCount, error)
	SumPendingExpensesDue(ctx context.Context, from, to time.Time) (models.SumCount, error)
}

// MetricsService вычисляет DashboardMetrics.
type MetricsService struct {
	repo MetricsRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewMetricsService создает новый экземпляр MetricsService.
func NewMetricsService(repo MetricsRepository, log *slog.Logger) *MetricsService {
	return &MetricsService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// GetMetrics возвращает показатели за диапазон token. Для custom используются from и to.
// Неизвестный токен трактуется как today.
func (s *MetricsService) GetMetrics(ctx context.Context, token string, from, to *time.Time) (*models.DashboardMetrics, error) {
	const op = "services.GetMetrics"
	now := s.now()
	if !daterange.Valid(token) {
		token = daterange.Today
	}
	r := daterange.ResolveCustom(token, from, to, now)

	var (
		m        models.DashboardMetrics
		received models.SumCount
		spent    models.SumCount
		overdue  models.SumCount
		upcoming models.SumCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.TotalMRR, err = s.repo.SumMRR(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.ActiveSubscriptions, err = s.repo.CountActiveSubscriptions(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.ClientsCount, err = s.repo.CountClients(gctx)
		return err
	})
	g.Go(func() (err error) {
		received, err = s.repo.SumPayments(gctx, models.PaymentStatusCompleted, r.Start, r.End, "")
		return err
	})
	g.Go(func() (err error) {
		spent, err = s.repo.SumPaidExpenses(gctx, r.Start, r.End, "", "")
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.repo.SumPayments(gctx, models.PaymentStatusOverdue, time.Time{}, time.Time{}, "")
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = s.repo.SumPendingExpensesDue(gctx, now, now.Add(UpcomingWindow))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.PaymentsReceived, m.PaymentsCount = received.Sum, received.Count
	m.TotalExpenses, m.ExpensesCount = spent.Sum, spent.Count
	m.NetProfit = received.Sum.Sub(spent.Sum)
	m.OverduePayments, m.OverduePaymentsCount = overdue.Sum, overdue.Count
	m.UpcomingExpenses, m.UpcomingExpensesCount = upcoming.Sum, upcoming.Count
	m.DateRange = models.DateRange{StartDate: r.Start, EndDate: r.End, Type: token}

	s.log.Debug("dashboard metrics computed",
		slog.String("range", token),
		slog.String("net_profit", m.NetProfit.String()),
	)
	return &m, nil
}
