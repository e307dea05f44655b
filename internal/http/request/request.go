// Package request разбирает параметры HTTP-запроса: id из пути, фильтры
// из query-строки и JSON-тело.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/billing-admin/internal/lib/daterange"
)

// ErrEmptyBody возвращается для запроса без тела.
var ErrEmptyBody = errors.New("request body is empty")

// ID возвращает положительный идентификатор из параметра пути {id}.
func ID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// Int64 возвращает необязательный числовой query-параметр.
func Int64(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &v, nil
}

// Date возвращает необязательную дату YYYY-MM-DD из query-параметра
// в локальном часовом поясе сервера.
func Date(r *http.Request, name string) (*time.Time, error) {
	t, err := daterange.ParseDate(strings.TrimSpace(r.URL.Query().Get(name)), time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected %s", name, daterange.DateLayout)
	}
	return t, nil
}

// DecodeJSON читает JSON-тело в v. Неизвестные поля игнорируются.
func DecodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	return err
}
