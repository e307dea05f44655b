// Package report реализует HTTP-обработчики финансовых отчётов и их выгрузки.
//
// Все отчёты принимают ?range=&currency=&type=&from=&to=. Пустой range
// означает this_month, неизвестный сводится к today. Выгрузка отдаётся
// вложением с именем "<вид>-report-<range>.<csv|pdf>".
package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-admin/internal/http/request"
	"github.com/magabrotheeeer/billing-admin/internal/http/response"
	"github.com/magabrotheeeer/billing-admin/internal/lib/daterange"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// Форматы выгрузки.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

var contentTypes = map[string]string{
	FormatCSV: "text/csv; charset=utf-8",
	FormatPDF: "application/pdf",
}

// Service описывает интерфейс построения отчётов.
type Service interface {
	RevenueReport(ctx context.Context, q models.ReportQuery) (*models.RevenueReport, error)
	ExpenseReport(ctx context.Context, q models.ReportQuery) (*models.ExpenseReport, error)
	CashFlowReport(ctx context.Context, q models.ReportQuery) (*models.CashFlowReport, error)
	RevenueCSV(ctx context.Context, q models.ReportQuery) ([]byte, error)
	ExpensesCSV(ctx context.Context, q models.ReportQuery) ([]byte, error)
	CashFlowCSV(ctx context.Context, q models.ReportQuery) ([]byte, error)
	RevenuePDF(ctx context.Context, q models.ReportQuery) ([]byte, error)
	ExpensesPDF(ctx context.Context, q models.ReportQuery) ([]byte, error)
	CashFlowPDF(ctx context.Context, q models.ReportQuery) ([]byte, error)
}

type exportFunc func(ctx context.Context, q models.ReportQuery) ([]byte, error)

// Handler обрабатывает запросы к /api/reports.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Revenue godoc
// @Summary Отчёт о выручке
// @Description Завершённые платежи за период.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param range query string false "Диапазон" default(this_month)
// @Param currency query string false "Валюта"
// @Param from query string false "Начало YYYY-MM-DD"
// @Param to query string false "Конец YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /reports/revenue [get]
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.Revenue"
	log := h.logger(r, op)

	q, err := parseQuery(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	rep, err := h.service.RevenueReport(r.Context(), q)
	if err != nil {
		response.Fail(w, r, log, err, "could not build revenue report")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(rep))
}

// Expenses godoc
// @Summary Отчёт о расходах
// @Description Оплаченные расходы за период с разбивкой по типам.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param range query string false "Диапазон" default(this_month)
// @Param currency query string false "Валюта"
// @Param type query string false "Тип расхода"
// @Param from query string false "Начало YYYY-MM-DD"
// @Param to query string false "Конец YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /reports/expenses [get]
func (h *Handler) Expenses(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.Expenses"
	log := h.logger(r, op)

	q, err := parseQuery(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	rep, err := h.service.ExpenseReport(r.Context(), q)
	if err != nil {
		response.Fail(w, r, log, err, "could not build expense report")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(rep))
}

// CashFlow godoc
// @Summary Движение средств
// @Description Выручка, расходы и их разница за период.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param range query string false "Диапазон" default(this_month)
// @Param currency query string false "Валюта"
// @Param from query string false "Начало YYYY-MM-DD"
// @Param to query string false "Конец YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /reports/cash-flow [get]
func (h *Handler) CashFlow(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.CashFlow"
	log := h.logger(r, op)

	q, err := parseQuery(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	rep, err := h.service.CashFlowReport(r.Context(), q)
	if err != nil {
		response.Fail(w, r, log, err, "could not build cash flow report")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(rep))
}

// ExportRevenue godoc
// @Summary Выгрузка отчёта о выручке
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format path string true "csv или pdf"
// @Param range query string false "Диапазон" default(this_month)
// @Param currency query string false "Валюта"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorResponse "Неизвестный формат"
// @Router /reports/revenue/export/{format} [get]
func (h *Handler) ExportRevenue(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "revenue", map[string]exportFunc{
		FormatCSV: h.service.RevenueCSV,
		FormatPDF: h.service.RevenuePDF,
	})
}

// ExportExpenses godoc
// @Summary Выгрузка отчёта о расходах
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format path string true "csv или pdf"
// @Param range query string false "Диапазон" default(this_month)
// @Param currency query string false "Валюта"
// @Param type query string false "Тип расхода"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorResponse "Неизвестный формат"
// @Router /reports/expenses/export/{format} [get]
func (h *Handler) ExportExpenses(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "expenses", map[string]exportFunc{
		FormatCSV: h.service.ExpensesCSV,
		FormatPDF: h.service.ExpensesPDF,
	})
}

// ExportCashFlow godoc
// @Summary Выгрузка отчёта о движении средств
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format path string true "csv или pdf"
// @Param range query string false "Диапазон" default(this_month)
// @Param currency query string false "Валюта"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorResponse "Неизвестный формат"
// @Router /reports/cash-flow/export/{format} [get]
func (h *Handler) ExportCashFlow(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "cash-flow", map[string]exportFunc{
		FormatCSV: h.service.CashFlowCSV,
		FormatPDF: h.service.CashFlowPDF,
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, kind string, exporters map[string]exportFunc) {
	const op = "handlers.report.Export"
	log := h.logger(r, op).With(slog.String("kind", kind))

	format := strings.ToLower(chi.URLParam(r, "format"))
	fn, ok := exporters[format]
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(fmt.Sprintf("unsupported export format %q", format)))
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	data, err := fn(r.Context(), q)
	if err != nil {
		response.Fail(w, r, log, err, "could not export report")
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, Filename(kind, q.Range, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warn("failed to write export", slog.String("format", format))
		return
	}
	log.Info("report exported", slog.String("format", format), slog.Int("bytes", len(data)))
}

// Filename возвращает имя файла выгрузки. Диапазон нормализуется так же,
// как при построении отчёта.
func Filename(kind, token, format string) string {
	switch {
	case token == "":
		token = daterange.ThisMonth
	case !daterange.Valid(token):
		token = daterange.Today
	}
	return fmt.Sprintf("%s-report-%s.%s", kind, token, format)
}

func parseQuery(r *http.Request) (models.ReportQuery, error) {
	from, err := request.Date(r, "from")
	if err != nil {
		return models.ReportQuery{}, err
	}
	to, err := request.Date(r, "to")
	if err != nil {
		return models.ReportQuery{}, err
	}

	q := r.URL.Query()
	return models.ReportQuery{
		Range:    q.Get("range"),
		From:     from,
		To:       to,
		Currency: strings.ToUpper(q.Get("currency")),
		Type:     q.Get("type"),
	}, nil
}
