// Package export сериализует отчёты в CSV и PDF.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field — именованное значение строки CSV.
type Field struct {
	Key   string
	Value any
}

// Row — упорядоченный набор полей одной записи.
type Row []Field

// CSV кодирует записи: заголовок берётся из ключей первой записи, строки
// разделяются \n. Значение оборачивается в кавычки только если содержит запятую,
// кавычки внутри значения не экранируются. Пустой вход даёт пустой результат.
func CSV(records []Row) []byte {
	if len(records) == 0 {
		return []byte{}
	}

	header := make([]string, len(records[0]))
	for i, f := range records[0] {
		header[i] = f.Key
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(header, ","))
	for _, rec := range records {
		values := make(map[string]any, len(rec))
		for _, f := range rec {
			values[f.Key] = f.Value
		}
		cells := make([]string, len(header))
		for i, key := range header {
			s := stringify(values[key])
			if strings.Contains(s, ",") {
				s = `"` + s + `"`
			}
			cells[i] = s
		}
		buf.WriteByte('\n')
		buf.WriteString(strings.Join(cells, ","))
	}
	return buf.Bytes()
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case *int64:
		if x == nil {
			return ""
		}
		return fmt.Sprint(*x)
	case decimal.Decimal:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
