// Package dashboard отдаёт показатели главной панели.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-admin/internal/http/request"
	"github.com/magabrotheeeer/billing-admin/internal/http/response"
	"github.com/magabrotheeeer/billing-admin/internal/lib/daterange"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// Service описывает интерфейс расчёта показателей.
type Service interface {
	GetMetrics(ctx context.Context, token string, from, to *time.Time) (*models.DashboardMetrics, error)
}

// Handler обрабатывает GET /api/dashboard/metrics.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Metrics godoc
// @Summary Показатели панели
// @Description MRR, выручка, расходы, чистая прибыль, просроченные платежи и ближайшие расходы за период.
// @Description Неизвестный dateRange трактуется как today. from и to учитываются для dateRange=custom.
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param dateRange query string false "Диапазон" default(this_month)
// @Param from query string false "Начало YYYY-MM-DD"
// @Param to query string false "Конец YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /dashboard/metrics [get]
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.Metrics"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	from, err := request.Date(r, "from")
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	to, err := request.Date(r, "to")
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	token := r.URL.Query().Get("dateRange")
	if token == "" {
		token = daterange.ThisMonth
	}

	metrics, err := h.service.GetMetrics(r.Context(), token, from, to)
	if err != nil {
		response.Fail(w, r, log, err, "could not calculate metrics")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(metrics))
}
