// Package expense реализует HTTP-обработчики расходов компании.
package expense

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

// Service описывает интерфейс бизнес-логики расходов.
type Service interface {
	Create(ctx context.Context, req models.ExpenseRequest) (*models.Expense, error)
	Get(ctx context.Context, id int64) (*models.Expense, error)
	List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
	Update(ctx context.Context, id int64, patch models.ExpensePatch) (*models.Expense, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

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
// @Summary Создать расход
// @Description Статус: paid при наличии paidDate, overdue при прошедшем dueDate, иначе pending.
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ExpenseRequest true "Данные расхода"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.Create"
	log := h.logger(r, op)

	var req models.ExpenseRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	e, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.Fail(w, r, log, err, "could not create expense")
		return
	}

	log.Info("expense created", slog.Int64("id", e.ID), slog.String("type", e.Type))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expense": e,
	}))
}

// Get godoc
// @Summary Получить расход
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID расхода"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /expenses/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.Get"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, "could not read expense")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expense": e,
	}))
}

// List godoc
// @Summary Список расходов
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param search query string false "Поиск по описанию и поставщику"
// @Param type query string false "Тип расхода"
// @Param status query string false "Статус"
// @Success 200 {object} response.Response
// @Router /expenses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.List"
	log := h.logger(r, op)

	q := r.URL.Query()
	expenses, err := h.service.List(r.Context(), models.ExpenseFilter{
		Search: q.Get("search"),
		Type:   q.Get("type"),
		Status: q.Get("status"),
	})
	if err != nil {
		response.Fail(w, r, log, err, "could not list expenses")
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expenses": expenses,
	}))
}

// Update godoc
// @Summary Изменить расход
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID расхода"
// @Param request body models.ExpensePatch true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /expenses/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.Update"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	var patch models.ExpensePatch
	if err := request.DecodeJSON(r, &patch); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	e, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		response.Fail(w, r, log, err, "could not update expense")
		return
	}

	log.Info("expense updated", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expense": e,
	}))
}

// Delete godoc
// @Summary Удалить расход
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID расхода"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.Delete"
	log := h.logger(r, op)

	id, err := request.ID(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Fail(w, r, log, err, "could not delete expense")
		return
	}

	log.Info("expense deleted", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_id": id,
	}))
}
