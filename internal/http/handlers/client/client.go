// Package client реализует HTTP-обработчики CRUD для клиентов.
//
// Каждый обработчик разбирает запрос, вызывает сервис и возвращает
// результат в формате response.Response. Ошибки сервиса переводятся
// в HTTP-статусы через response.Fail.
package client

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

// Service описывает интерфейс бизнес-логики клиентов.
type Service interface {
	Create(ctx context.Context, req models.ClientRequest) (*models.Client, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	List(ctx context.Context, filter models.ClientFilter) ([]models.Client, error)
	Update(ctx context.Context, id int64, patch models.ClientPatch) (*models.Client, error)
	Delete(ctx context.Context, id int64) error
}

// Handler обрабатывает запросы к /api/clients.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики клиентов
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Create godoc
// @Summary Создать клиента
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ClientRequest true "Данные клиента"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse
// @Router /clients [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.Create"
	log := h.logger(r, op)

	var req models.ClientRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	client, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not create client")
		return
	}

	log.Info("client created", slog.Int64("id", client.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": client,
	}))
}

// Get godoc
// @Summary Получить клиента по ID
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID клиента"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /clients/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.Get"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, "could not read client")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": client,
	}))
}

// List godoc
// @Summary Список клиентов
// @Description Поиск по имени, email и компании без учёта регистра.
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param search query string false "Строка поиска"
// @Success 200 {object} response.Response
// @Router /clients [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.List"
	log := h.logger(r, op)

	clients, err := h.service.List(r.Context(), models.ClientFilter{
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		response.Fail(w, r, log, err, "could not list clients")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"clients": clients,
	}))
}

// Update godoc
// @Summary Изменить клиента
// @Description Обновляются только переданные поля.
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID клиента"
// @Param request body models.ClientPatch true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /clients/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.Update"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	var patch models.ClientPatch
	if err := request.DecodeJSON(r, &patch); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	client, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		response.Fail(w, r, log, err, "could not update client")
		return
	}

	log.Info("client updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": client,
	}))
}

// Delete godoc
// @Summary Удалить клиента
// @Description Подписки и платежи клиента удаляются каскадно.
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID клиента"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /clients/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err, "could not delete client")
		return
	}

	log.Info("client deleted", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
