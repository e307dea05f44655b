// Package payment реализует HTTP-обработчики платежей.
package payment

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-admin/internal/http/request"
	"github.com/magabrotheeeer/billing-admin/internal/http/response"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// Service описывает интерфейс бизнес-логики платежей.
type Service interface {
	Create(ctx context.Context, req models.PaymentRequest) (*models.Payment, error)
	Get(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	Update(ctx context.Context, id int64, patch models.PaymentPatch) (*models.Payment, error)
	Delete(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы к /api/payments.
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

// Create godoc
// @Summary Зарегистрировать платеж
// @Description Платёж с датой в будущем создаётся в статусе pending, остальные в completed.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PaymentRequest true "Данные платежа"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Клиент или подписка не найдены"
// @Failure 422 {object} response.Response
// @Router /payments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Create"
	log := h.logger(r, op)

	var req models.PaymentRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not create payment")
		return
	}

	log.Info("payment created", slog.Int64("id", p.ID), slog.String("status", p.Status))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": p,
	}))
}

// Get godoc
// @Summary Получить платеж
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Get"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, "could not read payment")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": p,
	}))
}

// List godoc
// @Summary Список платежей
// @Description Платежи отсортированы по дате, новые первыми. search ищет по заметкам и имени клиента.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param clientId query int false "ID клиента"
// @Param subscriptionId query int false "ID подписки"
// @Param status query string false "Статус"
// @Param search query string false "Строка поиска"
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.List"
	log := h.logger(r, op)

	clientID, err := request.Int64(r, "clientId")
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}
	subscriptionID, err := request.Int64(r, "subscriptionId")
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	q := r.URL.Query()
	payments, err := h.service.List(r.Context(), models.PaymentFilter{
		ClientID:       clientID,
		SubscriptionID: subscriptionID,
		Status:         q.Get("status"),
		Search:         q.Get("search"),
	})
	if err != nil {
		response.Fail(w, r, log, err, "could not list payments")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payments": payments,
	}))
}

// Update godoc
// @Summary Изменить платеж
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Param request body models.PaymentPatch true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /payments/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Update"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	var patch models.PaymentPatch
	if err := request.DecodeJSON(r, &patch); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	p, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		response.Fail(w, r, log, err, "could not update payment")
		return
	}

	log.Info("payment updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": p,
	}))
}

// Delete godoc
// @Summary Удалить платеж
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err, "could not delete payment")
		return
	}

	log.Info("payment deleted", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
