// Package telegram реализует вебхук бота и привязку чата Telegram к пользователю.
package telegram

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	botmodels "github.com/go-telegram/bot/models"

	"github.com/magabrotheeeer/billing-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/billing-admin/internal/http/request"
	"github.com/magabrotheeeer/billing-admin/internal/http/response"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// SecretHeader — заголовок, которым Telegram подписывает вызовы вебхука.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Service описывает интерфейс сервиса бота.
type Service interface {
	HandleUpdate(ctx context.Context, update *botmodels.Update)
	ConnectInfo(ctx context.Context) (*models.TelegramConnectInfo, error)
	Link(ctx context.Context, userID int64, chatID string) (*models.UserView, error)
	Unlink(ctx context.Context, userID int64) error
}

// Handler обрабатывает вебхук и маршруты /api/telegram.
type Handler struct {
	log     *slog.Logger
	service Service
	secret  string
}

// New создает Handler. Пустой secret отключает проверку заголовка вебхука.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{log: log, service: service, secret: secret}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Webhook godoc
// @Summary Вебхук Telegram
// @Description Принимает обновления бота. Отвечает 200 даже на нераспознанные команды.
// @Tags Telegram
// @Accept json
// @Produce json
// @Param X-Telegram-Bot-Api-Secret-Token header string false "Секрет вебхука"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /telegram/webhook [post]
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.Webhook"
	log := h.logger(r, op)

	if h.secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(SecretHeader)), []byte(h.secret)) != 1 {
		log.Warn("webhook secret mismatch")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid webhook secret"))
		return
	}

	var update botmodels.Update
	if err := request.DecodeJSON(r, &update); err != nil {
		log.Info("failed to decode update", sl.Err(err))
		response.BadRequest(w, r, "invalid update")
		return
	}

	h.service.HandleUpdate(r.Context(), &update)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"ok": true}))
}

// ConnectInfo godoc
// @Summary Инструкция по привязке Telegram
// @Tags Telegram
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /telegram/connect [get]
func (h *Handler) ConnectInfo(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.ConnectInfo"
	log := h.logger(r, op)

	info, err := h.service.ConnectInfo(r.Context())
	if err != nil {
		response.Fail(w, r, log, err, "could not reach telegram")
		return
	}
	render.JSON(w, r, response.StatusOKWithData(info))
}

// Connect godoc
// @Summary Привязать чат Telegram
// @Description Сохраняет chatId текущего пользователя и отправляет в чат подтверждение.
// @Tags Telegram
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.TelegramLinkRequest true "ID чата"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.Response
// @Router /telegram/connect [post]
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.Connect"
	log := h.logger(r, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.TelegramLinkRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		response.BadRequest(w, r, "invalid request body")
		return
	}

	user, err := h.service.Link(r.Context(), userID, req.ChatID)
	if err != nil {
		response.Fail(w, r, log, err, "could not link telegram")
		return
	}

	log.Info("telegram linked", slog.Int64("user_id", userID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}

// Disconnect godoc
// @Summary Отвязать чат Telegram
// @Tags Telegram
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /telegram/disconnect [delete]
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.Disconnect"
	log := h.logger(r, op)

	userID, ok := middlewarectx.UserIDFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Unlink(r.Context(), userID); err != nil {
		response.Fail(w, r, log, err, "could not unlink telegram")
		return
	}

	log.Info("telegram unlinked", slog.Int64("user_id", userID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"disconnected": true,
	}))
}
