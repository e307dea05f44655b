// Package subscription реализует HTTP-обработчики подписок клиентов.
package subscription

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

// Service описывает интерфейс бизнес-логики подписок.
type Service interface {
	Create(ctx context.Context, req models.SubscriptionRequest) (*models.Subscription, error)
	Get(ctx context.Context, id int64) (*models.Subscription, error)
	List(ctx context.Context, filter models.SubscriptionFilter) ([]models.Subscription, error)
	Update(ctx context.Context, id int64, patch models.SubscriptionPatch) (*models.Subscription, error)
	Delete(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы к /api/subscriptions.
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
// @Summary Создать подписку
// @Description Статус вычисляется автоматически: trial при наличии trialEndDate, иначе active.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SubscriptionRequest true "Данные подписки"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /subscriptions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Create"
	log := h.logger(r, op)

	var req models.SubscriptionRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	sub, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not create subscription")
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID), slog.Int64("client_id", sub.ClientID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": sub,
	}))
}

// Get godoc
// @Summary Получить подписку
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Get"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	sub, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, "could not read subscription")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": sub,
	}))
}

// List godoc
// @Summary Список подписок
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param clientId query int false "ID клиента"
// @Param status query string false "Статус"
// @Param type query string false "Тип подписки"
// @Success 200 {object} response.Response
// @Router /subscriptions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.List"
	log := h.logger(r, op)

	clientID, err := request.Int64(r, "clientId")
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	q := r.URL.Query()
	subs, err := h.service.List(r.Context(), models.SubscriptionFilter{
		ClientID: clientID,
		Status:   q.Get("status"),
		Type:     q.Get("type"),
	})
	if err != nil {
		response.Fail(w, r, log, err, "could not list subscriptions")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscriptions": subs,
	}))
}

// Update godoc
// @Summary Изменить подписку
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID подписки"
// @Param request body models.SubscriptionPatch true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /subscriptions/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Update"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	var patch models.SubscriptionPatch
	if err := request.DecodeJSON(r, &patch); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	sub, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		response.Fail(w, r, log, err, "could not update subscription")
		return
	}

	log.Info("subscription updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": sub,
	}))
}

// Delete godoc
// @Summary Удалить подписку
// @Description Платежи подписки сохраняются, ссылка на подписку обнуляется.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err, "could not delete subscription")
		return
	}

	log.Info("subscription deleted", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
