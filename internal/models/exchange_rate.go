package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate - курс пары валют на дату. Для одной пары может существовать
// несколько курсов; текущим считается курс с ближайшей датой.
type ExchangeRate struct {
	ID            int64           `json:"id"`
	FromCurrency  string          `json:"fromCurrency"`
	ToCurrency    string          `json:"toCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ExchangeRateRequest - данные для создания курса.
type ExchangeRateRequest struct {
	FromCurrency  string          `json:"fromCurrency" validate:"required,oneof=USD UZS"`
	ToCurrency    string          `json:"toCurrency" validate:"required,oneof=USD UZS"`
	Rate          decimal.Decimal `json:"rate" validate:"gt=0"`
	EffectiveDate time.Time       `json:"effectiveDate" validate:"required"`
}

// ExchangeRatePatch - частичное обновление курса.
type ExchangeRatePatch struct {
	FromCurrency  *string          `json:"fromCurrency,omitempty"`
	ToCurrency    *string          `json:"toCurrency,omitempty"`
	Rate          *decimal.Decimal `json:"rate,omitempty"`
	EffectiveDate *time.Time       `json:"effectiveDate,omitempty"`
}

// ExchangeRateRequestFrom строит запрос из сохранённого курса.
func ExchangeRateRequestFrom(r *ExchangeRate) ExchangeRateRequest {
	return ExchangeRateRequest{
		FromCurrency:  r.FromCurrency,
		ToCurrency:    r.ToCurrency,
		Rate:          r.Rate,
		EffectiveDate: r.EffectiveDate,
	}
}

// Apply накладывает патч на запрос.
func (p ExchangeRatePatch) Apply(req *ExchangeRateRequest) {
	if p.FromCurrency != nil {
		req.FromCurrency = *p.FromCurrency
	}
	if p.ToCurrency != nil {
		req.ToCurrency = *p.ToCurrency
	}
	if p.Rate != nil {
		req.Rate = *p.Rate
	}
	if p.EffectiveDate != nil {
		req.EffectiveDate = *p.EffectiveDate
	}
}

// Conversion - результат конвертации суммы.
type Conversion struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	Converted decimal.Decimal `json:"converted"`
	AsOf      time.Time       `json:"asOf"`
}
