// Package settings реализует чтение и изменение настроек уведомлений текущего пользователя.
package settings

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/billing-admin/internal/http/request"
	"github.com/magabrotheeeer/billing-admin/internal/http/response"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

type Service interface {
	Get(ctx context.Context, userID int64) (*models.NotificationSettings, error)
	Update(ctx context.Context, userID int64, patch models.NotificationSettingsPatch) (*models.NotificationSettings, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Get godoc
// @Summary Настройки уведомлений
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/settings [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.Get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	ns, err := h.service.Get(r.Context(), userID)
	if err != nil {
		response.Fail(w, r, log, err, "could not read settings")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"settings": ns,
	}))
}

// Update godoc
// @Summary Изменить настройки уведомлений
// @Description renewalReminderDays должен быть в диапазоне 1..30.
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.NotificationSettingsPatch true "Изменяемые поля"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /notifications/settings [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.Update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var patch models.NotificationSettingsPatch
	if err := request.DecodeJSON(r, &patch); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	ns, err := h.service.Update(r.Context(), userID, patch)
	if err != nil {
		response.Fail(w, r, log, err, "could not update settings")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"settings": ns,
	}))
}
