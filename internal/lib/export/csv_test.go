package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCSV_Empty(t *testing.T) {
	out := CSV(nil)
	assert.NotNil(t, out)
	assert.Len(t, out, 0)

	assert.Len(t, CSV([]Row{}), 0)
}

func TestCSV_HeaderAndRows(t *testing.T) {
	name := "Acme"
	paid := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	out := CSV([]Row{
		{{"id", int64(1)}, {"amount", decimal.RequireFromString("100.50")}, {"clientName", &name}, {"paymentDate", paid}},
		{{"id", int64(2)}, {"amount", decimal.NewFromInt(7)}, {"clientName", (*string)(nil)}, {"paymentDate", paid}},
	})

	want := "id,amount,clientName,paymentDate\n" +
		"1,100.5,Acme,2024-03-05T10:00:00Z\n" +
		"2,7,,2024-03-05T10:00:00Z"
	assert.Equal(t, want, string(out))
}

func TestCSV_QuotesOnlyValuesWithComma(t *testing.T) {
	out := CSV([]Row{
		{{"description", "Hosting, monthly"}, {"vendor", `Say "hi" Inc`}},
	})

	// кавычки внутри значения остаются как есть
	assert.Equal(t, "description,vendor\n\"Hosting, monthly\",Say \"hi\" Inc", string(out))
}

func TestCSV_HeaderFromFirstRecord(t *testing.T) {
	out := CSV([]Row{
		{{"a", "1"}, {"b", "2"}},
		{{"b", "4"}, {"c", "5"}},
	})

	assert.Equal(t, "a,b\n1,2\n,4", string(out))
}
