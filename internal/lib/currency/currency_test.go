package currency

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func usdUzsRates() []models.ExchangeRate {
	return []models.ExchangeRate{
		{FromCurrency: USD, ToCurrency: UZS, Rate: decimal.NewFromInt(12000), EffectiveDate: day(2024, time.January, 1)},
		{FromCurrency: USD, ToCurrency: UZS, Rate: decimal.NewFromInt(12500), EffectiveDate: day(2024, time.June, 1)},
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		code   string
		want   string
	}{
		{name: "usd small", amount: decimal.RequireFromString("9.5"), code: USD, want: "$9.50"},
		{name: "usd grouped", amount: decimal.RequireFromString("1234.5"), code: USD, want: "$1,234.50"},
		{name: "usd millions", amount: decimal.RequireFromString("1234567.891"), code: USD, want: "$1,234,567.89"},
		{name: "usd negative", amount: decimal.RequireFromString("-1500"), code: USD, want: "-$1,500.00"},
		{name: "uzs", amount: decimal.NewFromInt(12500000), code: UZS, want: "UZS 12,500,000.00"},
		{name: "zero", amount: decimal.Zero, code: USD, want: "$0.00"},
		{name: "exactly three digits", amount: decimal.NewFromInt(100), code: UZS, want: "UZS 100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.amount, tt.code))
		})
	}
}

func TestFindRate_SameCurrency(t *testing.T) {
	for _, code := range []string{USD, UZS} {
		got := FindRate(nil, code, code, time.Now())
		assert.True(t, got.Equal(decimal.NewFromInt(1)))
	}
}

func TestFindRate_NoRateIsZero(t *testing.T) {
	got := FindRate(usdUzsRates(), UZS, USD, day(2024, time.March, 1))
	assert.True(t, got.IsZero())

	converted := Convert(usdUzsRates(), decimal.NewFromInt(1_000_000), UZS, USD, day(2024, time.March, 1))
	assert.True(t, converted.IsZero())
}

func TestFindRate_NearestEffectiveDate(t *testing.T) {
	tests := []struct {
		name string
		asOf time.Time
		want int64
	}{
		{name: "closer to january", asOf: day(2024, time.March, 1), want: 12000},
		{name: "closer to june", asOf: day(2024, time.May, 1), want: 12500},
		{name: "after last rate", asOf: day(2025, time.January, 1), want: 12500},
		{name: "before first rate", asOf: day(2023, time.June, 1), want: 12000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindRate(usdUzsRates(), USD, UZS, tt.asOf)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s", got)
		})
	}
}

func TestConvert(t *testing.T) {
	got := Convert(usdUzsRates(), decimal.RequireFromString("10.5"), USD, UZS, day(2024, time.February, 1))
	assert.True(t, got.Equal(decimal.NewFromInt(126000)), "got %s", got)
}

func TestHasRate(t *testing.T) {
	rates := usdUzsRates()

	assert.True(t, HasRate(rates, USD, UZS))
	assert.True(t, HasRate(rates, UZS, UZS))
	assert.False(t, HasRate(rates, UZS, USD))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(USD))
	assert.False(t, Supported("EUR"))
}
