// Package exchangerate реализует HTTP-обработчики курсов валют и конвертации.
package exchangerate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-admin/internal/http/request"
	"github.com/magabrotheeeer/billing-admin/internal/http/response"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// Service описывает интерфейс бизнес-логики курсов.
type Service interface {
	Create(ctx context.Context, req models.ExchangeRateRequest) (*models.ExchangeRate, error)
	Get(ctx context.Context, id int64) (*models.ExchangeRate, error)
	List(ctx context.Context) ([]models.ExchangeRate, error)
	Latest(ctx context.Context, from, to string) (*models.ExchangeRate, error)
	Update(ctx context.Context, id int64, patch models.ExchangeRatePatch) (*models.ExchangeRate, error)
	Delete(ctx context.Context, id int64) error
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf time.Time) (*models.Conversion, error)
}

// Handler обрабатывает запросы к /api/exchange-rates.
type Handler struct {
	log     *slog.Logger
	service Service
	now     func() time.Time
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, now: time.Now}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Create godoc
// @Summary Добавить курс валют
// @Tags Exchange rates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ExchangeRateRequest true "Курс"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /exchange-rates [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exchangerate.Create"
	log := h.logger(r, op)

	var req models.ExchangeRateRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	rate, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not create exchange rate")
		return
	}

	log.Info("exchange rate created",
		slog.Int64("id", rate.ID),
		slog.String("pair", rate.FromCurrency+"/"+rate.ToCurrency),
	)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"exchange_rate": rate,
	}))
}

// Get godoc
// @Summary Получить курс
// @Tags Exchange rates
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /exchange-rates/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exchangerate.Get"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	rate, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, "could not read exchange rate")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"exchange_rate": rate,
	}))
}

// List godoc
// @Summary Список курсов
// @Tags Exchange rates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /exchange-rates [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exchangerate.List"
	log := h.logger(r, op)

	rates, err := h.service.List(r.Context())
	if err != nil {
		response.Fail(w, r, log, err, "could not list exchange rates")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"exchange_rates": rates,
	}))
}

// Latest godoc
// @Summary Последний курс пары
// @Tags Exchange rates
// @Produce json
// @Security BearerAuth
// @Param from query string true "Исходная валюта"
// @Param to query string true "Целевая валюта"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /exchange-rates/latest [get]
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exchangerate.Latest"
	log := h.logger(r, op)

	from, to := pair(r)
	if from == "" || to == "" {
		response.BadRequest(w, r, "from and to are required")
		return
	}

	rate, err := h.service.Latest(r.Context(), from, to)
	if err != nil {
		response.Fail(w, r, log, err, "could not read exchange rate")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"exchange_rate": rate,
	}))
}

// Convert godoc
// @Summary Конвертировать сумму
// @Description Используется курс с датой, ближайшей к date (по умолчанию текущий момент).
// @Description Если курса пары нет, rate и converted равны нулю.
// @Tags Exchange rates
// @Produce json
// @Security BearerAuth
// @Param amount query string true "Сумма"
// @Param from query string true "Исходная валюта"
// @Param to query string true "Целевая валюта"
// @Param date query string false "Дата курса YYYY-MM-DD"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /exchange-rates/convert [get]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exchangerate.Convert"
	log := h.logger(r, op)

	amount, err := decimal.NewFromString(strings.TrimSpace(r.URL.Query().Get("amount")))
	if err != nil {
		response.BadRequest(w, r, "invalid amount")
		return
	}

	asOf, err := request.Date(r, "date")
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	if asOf == nil {
		now := h.now()
		asOf = &now
	}

	from, to := pair(r)
	conv, err := h.service.Convert(r.Context(), amount, from, to, *asOf)
	if err != nil {
		response.Fail(w, r, log, err, "could not convert amount")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"conversion": conv,
	}))
}

// Update godoc
// @Summary Изменить курс
// @Tags Exchange rates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Param request body models.ExchangeRatePatch true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /exchange-rates/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exchangerate.Update"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	var patch models.ExchangeRatePatch
	if err := request.DecodeJSON(r, &patch); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	rate, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		response.Fail(w, r, log, err, "could not update exchange rate")
		return
	}

	log.Info("exchange rate updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"exchange_rate": rate,
	}))
}

// Delete godoc
// @Summary Удалить курс
// @Tags Exchange rates
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID курса"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /exchange-rates/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exchangerate.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err, "could not delete exchange rate")
		return
	}

	log.Info("exchange rate deleted", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}

func pair(r *http.Request) (string, string) {
	q := r.URL.Query()
	return strings.ToUpper(strings.TrimSpace(q.Get("from"))), strings.ToUpper(strings.TrimSpace(q.Get("to")))
}
