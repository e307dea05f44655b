// Package daterange переводит именованный диапазон отчёта ("this_month", "last_7_days" и т.д.)
// в конкретный интервал [Start, End]. Обе границы включительные: начало дня 00:00:00.000,
// конец дня 23:59:59.999 в часовом поясе переданного now.
package daterange

import "time"

// Токены диапазонов.
const (
	Today      = "today"
	Yesterday  = "yesterday"
	Last7Days  = "last_7_days"
	Last30Days = "last_30_days"
	ThisMonth  = "this_month"
	LastMonth  = "last_month"
	ThisYear   = "this_year"
	LastYear   = "last_year"
	Custom     = "custom"
)

// DateLayout — формат дат в query-параметрах from/to.
const DateLayout = "2006-01-02"

var labels = map[string]string{
	Today:      "Today",
	Yesterday:  "Yesterday",
	Last7Days:  "Last 7 Days",
	Last30Days: "Last 30 Days",
	ThisMonth:  "This Month",
	LastMonth:  "Last Month",
	ThisYear:   "This Year",
	LastYear:   "Last Year",
	Custom:     "Custom",
}

// Range — включительный интервал дат.
type Range struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Contains сообщает, попадает ли t в интервал.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// StartOfDay возвращает 00:00:00.000 дня t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay возвращает 23:59:59.999 дня t.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Resolve вычисляет интервал для токена относительно now.
// Неизвестный токен (и custom без дат) трактуется как today.
func Resolve(token string, now time.Time) Range {
	startOfDay := StartOfDay(now)
	endOfDay := EndOfDay(now)
	loc := now.Location()

	switch token {
	case Yesterday:
		y := startOfDay.AddDate(0, 0, -1)
		return Range{Start: y, End: EndOfDay(y)}
	case Last7Days:
		return Range{Start: startOfDay.AddDate(0, 0, -7), End: endOfDay}
	case Last30Days:
		return Range{Start: startOfDay.AddDate(0, 0, -30), End: endOfDay}
	case ThisMonth:
		return Range{Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc), End: endOfDay}
	case LastMonth:
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return Range{
			Start: firstOfThis.AddDate(0, -1, 0),
			End:   EndOfDay(firstOfThis.AddDate(0, 0, -1)),
		}
	case ThisYear:
		return Range{Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc), End: endOfDay}
	case LastYear:
		return Range{
			Start: time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, loc),
			End:   EndOfDay(time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, loc)),
		}
	default:
		return Range{Start: startOfDay, End: endOfDay}
	}
}

// ResolveCustom поддерживает явные границы для токена custom.
// Если from или to не заданы, поведение совпадает с Resolve.
func ResolveCustom(token string, from, to *time.Time, now time.Time) Range {
	if token != Custom || from == nil || to == nil {
		return Resolve(token, now)
	}
	start, end := StartOfDay(from.In(now.Location())), EndOfDay(to.In(now.Location()))
	if end.Before(start) {
		start, end = StartOfDay(to.In(now.Location())), EndOfDay(from.In(now.Location()))
	}
	return Range{Start: start, End: end}
}

// ParseDate разбирает дату в формате DateLayout в часовом поясе loc.
// Пустая строка даёт nil без ошибки.
func ParseDate(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Valid сообщает, известен ли токен.
func Valid(token string) bool {
	_, ok := labels[token]
	return ok
}

// Label возвращает человекочитаемое название токена.
func Label(token string) string {
	if l, ok := labels[token]; ok {
		return l
	}
	return labels[Today]
}
