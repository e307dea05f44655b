// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Fields — сообщения по полям при ошибке валидации.
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string            `json:"status"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Data   any               `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error и сообщениями по полям.
func ValidationError(fields map[string]string) Response {
	return Response{
		Status: StatusError,
		Error:  "validation failed",
		Fields: fields,
	}
}

// Fail пишет ответ по виду ошибки: валидация — 422, не найдено — 404,
// конфликт — 409, нет доступа — 401. Остальные ошибки отдаются как 500
// с сообщением fallback, подробности остаются в логе.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, fallback string) {
	if fields, ok := apperr.FieldErrors(err); ok {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, ValidationError(fields))
		return
	}

	switch {
	case errors.Is(err, apperr.ErrValidation):
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, Error("validation failed"))
	case errors.Is(err, apperr.ErrNotFound):
		log.Info("not found", sl.Err(err))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error("not found"))
	case errors.Is(err, apperr.ErrConflict):
		log.Info("conflict", sl.Err(err))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, Error("already exists"))
	case errors.Is(err, apperr.ErrUnauthorized):
		log.Info("unauthorized", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, Error("unauthorized"))
	default:
		log.Error(fallback, sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error(fallback))
	}
}

// BadRequest отвечает 400 с сообщением msg.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error(msg))
}
