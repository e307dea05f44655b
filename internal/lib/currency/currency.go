// Package currency форматирует суммы и конвертирует их по списку курсов.
//
// Пакет не обращается к хранилищу: список курсов передаёт вызывающий код.
package currency

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

// Коды поддерживаемых валют.
const (
	USD = "USD"
	UZS = "UZS"
)

// Symbols — символы валют для интерфейса.
var Symbols = map[string]string{
	USD: "$",
	UZS: "so'm",
}

// Names — полные названия валют.
var Names = map[string]string{
	USD: "US Dollar",
	UZS: "Uzbekistan Som",
}

// Supported сообщает, поддерживается ли код валюты.
func Supported(code string) bool {
	_, ok := Names[code]
	return ok
}

// Format возвращает сумму с двумя знаками после запятой и разделителями тысяч.
// USD выводится как $1,234.50, остальные валюты с префиксом кода: UZS 1,234.50.
func Format(amount decimal.Decimal, code string) string {
	neg := amount.IsNegative()
	digits := group(amount.Abs().StringFixed(2))

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if code == USD {
		b.WriteString("$")
	} else {
		b.WriteString(code)
		b.WriteByte(' ')
	}
	b.WriteString(digits)
	return b.String()
}

func group(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	if len(intPart) <= 3 {
		return fixed
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FindRate выбирает курс пары from->to с датой, ближайшей к asOf.
// Для одинаковых валют возвращает 1, при отсутствии курса — 0.
// Ноль означает «конвертация невозможна», а не валидный курс.
func FindRate(rates []models.ExchangeRate, from, to string, asOf time.Time) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}

	var (
		best     decimal.Decimal
		bestDiff time.Duration
		found    bool
	)
	for _, r := range rates {
		if r.FromCurrency != from || r.ToCurrency != to {
			continue
		}
		diff := absDuration(r.EffectiveDate.Sub(asOf))
		if !found || diff < bestDiff {
			best, bestDiff, found = r.Rate, diff, true
		}
	}
	if !found {
		return decimal.Zero
	}
	return best
}

// Convert переводит amount из from в to по курсу FindRate.
func Convert(rates []models.ExchangeRate, amount decimal.Decimal, from, to string, asOf time.Time) decimal.Decimal {
	return amount.Mul(FindRate(rates, from, to, asOf))
}

// HasRate сообщает, можно ли сконвертировать from в to.
func HasRate(rates []models.ExchangeRate, from, to string) bool {
	if from == to {
		return true
	}
	for _, r := range rates {
		if r.FromCurrency == from && r.ToCurrency == to {
			return true
		}
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
