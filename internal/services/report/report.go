// Package services строит отчёты о выручке, расходах и движении средств
// и выгружает их в CSV и PDF.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/billing-admin/internal/lib/daterange"
	"github.com/magabrotheeeer/billing-admin/internal/lib/export"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// ReportRepository — выборки для отчётов.
type ReportRepository interface {
	RevenueItems(ctx context.Context, f models.ReportFilter) ([]models.RevenueItem, error)
	ExpenseItems(ctx context.Context, f models.ReportFilter) ([]models.ExpenseItem, error)
	ExpenseTotalsByType(ctx context.Context, f models.ReportFilter) ([]models.ExpenseTypeTotal, error)
	SumPayments(ctx context.Context, status string, from, to time.Time, currency string) (models.SumCount, error)
	SumPaidExpenses(ctx context.Context, from, to time.Time, currency, expenseType string) (models.SumCount, error)
}

// ReportService строит отчёты.
type ReportService struct {
	repo ReportRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewReportService создает новый экземпляр ReportService.
func NewReportService(repo ReportRepository, log *slog.Logger) *ReportService {
	return &ReportService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

func (s *ReportService) filter(q models.ReportQuery) (models.ReportFilter, models.DateRange) {
	token := q.Range
	if token == "" {
		token = daterange.ThisMonth
	}
	if !daterange.Valid(token) {
		token = daterange.Today
	}
	r := daterange.ResolveCustom(token, q.From, q.To, s.now())
	return models.ReportFilter{Start: r.Start, End: r.End, Currency: q.Currency, Type: q.Type},
		models.DateRange{StartDate: r.Start, EndDate: r.End, Type: token}
}

// RevenueReport возвращает завершённые платежи периода и их сумму.
func (s *ReportService) RevenueReport(ctx context.Context, q models.ReportQuery) (*models.RevenueReport, error) {
	const op = "services.RevenueReport"
	f, dr := s.filter(q)

	items, err := s.repo.RevenueItems(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.RevenueItem{}
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return &models.RevenueReport{
		Payments:  items,
		Total:     total,
		Count:     len(items),
		DateRange: dr,
	}, nil
}

// ExpenseReport возвращает оплаченные расходы периода с разбивкой по типам.
func (s *ReportService) ExpenseReport(ctx context.Context, q models.ReportQuery) (*models.ExpenseReport, error) {
	const op = "services.ExpenseReport"
	f, dr := s.filter(q)

	var (
		items  []models.ExpenseItem
		byType []models.ExpenseTypeTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.repo.ExpenseItems(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		byType, err = s.repo.ExpenseTotalsByType(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.ExpenseItem{}
	}
	if byType == nil {
		byType = []models.ExpenseTypeTotal{}
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return &models.ExpenseReport{
		Expenses:  items,
		Total:     total,
		Count:     len(items),
		ByType:    byType,
		DateRange: dr,
	}, nil
}

// CashFlowReport считает выручку, расходы и их разницу за период.
func (s *ReportService) CashFlowReport(ctx context.Context, q models.ReportQuery) (*models.CashFlowReport, error) {
	const op = "services.CashFlowReport"
	f, dr := s.filter(q)

	var revenue, expenses models.SumCount
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		revenue, err = s.repo.SumPayments(gctx, models.PaymentStatusCompleted, f.Start, f.End, f.Currency)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.repo.SumPaidExpenses(gctx, f.Start, f.End, f.Currency, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.CashFlowReport{
		Revenue:   revenue.Sum,
		Expenses:  expenses.Sum,
		Net:       revenue.Sum.Sub(expenses.Sum),
		DateRange: dr,
	}, nil
}

// RevenueCSV выгружает отчёт о выручке в CSV.
func (s *ReportService) RevenueCSV(ctx context.Context, q models.ReportQuery) ([]byte, error) {
	report, err := s.RevenueReport(ctx, q)
	if err != nil {
		return nil, err
	}
	rows := make([]export.Row, 0, len(report.Payments))
	for _, p := range report.Payments {
		rows = append(rows, export.Row{
			{Key: "id", Value: p.ID},
			{Key: "clientId", Value: p.ClientID},
			{Key: "amount", Value: p.Amount},
			{Key: "currency", Value: p.Currency},
			{Key: "paymentDate", Value: p.PaymentDate},
			{Key: "clientName", Value: p.ClientName},
		})
	}
	return export.CSV(rows), nil
}

// ExpensesCSV выгружает отчёт о расходах в CSV.
func (s *ReportService) ExpensesCSV(ctx context.Context, q models.ReportQuery) ([]byte, error) {
	report, err := s.ExpenseReport(ctx, q)
	if err != nil {
		return nil, err
	}
	rows := make([]export.Row, 0, len(report.Expenses))
	for _, e := range report.Expenses {
		rows = append(rows, export.Row{
			{Key: "id", Value: e.ID},
			{Key: "type", Value: e.Type},
			{Key: "description", Value: e.Description},
			{Key: "amount", Value: e.Amount},
			{Key: "currency", Value: e.Currency},
			{Key: "paidDate", Value: e.PaidDate},
			{Key: "vendor", Value: e.Vendor},
			{Key: "category", Value: e.Category},
		})
	}
	return export.CSV(rows), nil
}

// CashFlowCSV выгружает итог движения средств одной строкой.
func (s *ReportService) CashFlowCSV(ctx context.Context, q models.ReportQuery) ([]byte, error) {
	report, err := s.CashFlowReport(ctx, q)
	if err != nil {
		return nil, err
	}
	return export.CSV([]export.Row{{
		{Key: "revenue", Value: report.Revenue},
		{Key: "expenses", Value: report.Expenses},
		{Key: "net", Value: report.Net},
	}}), nil
}

// RevenuePDF выгружает отчёт о выручке в PDF.
func (s *ReportService) RevenuePDF(ctx context.Context, q models.ReportQuery) ([]byte, error) {
	report, err := s.RevenueReport(ctx, q)
	if err != nil {
		return nil, err
	}
	return export.RevenuePDF(report.Payments, report.Total, report.DateRange, s.now())
}

// ExpensesPDF выгружает отчёт о расходах в PDF.
func (s *ReportService) ExpensesPDF(ctx context.Context, q models.ReportQuery) ([]byte, error) {
	report, err := s.ExpenseReport(ctx, q)
	if err != nil {
		return nil, err
	}
	return export.ExpensesPDF(report.Expenses, report.Total, report.DateRange, s.now())
}

// CashFlowPDF выгружает отчёт о движении средств в PDF.
func (s *ReportService) CashFlowPDF(ctx context.Context, q models.ReportQuery) ([]byte, error) {
	report, err := s.CashFlowReport(ctx, q)
	if err != nil {
		return nil, err
	}
	return export.CashFlowPDF(*report, s.now())
}
