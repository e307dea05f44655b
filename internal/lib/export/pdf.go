package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/billing-admin/internal/lib/currency"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

const (
	marginLeft  = 14.0
	tableTop    = 50.0
	rowHeight   = 7.0
	rangeLayout = "Mon Jan 02 2006"
	genLayout   = "2006-01-02 15:04:05"
	cellLayout  = "01/02/2006"
)

// compress включает сжатие потоков страницы.
var compress = true

type rgb struct{ r, g, b int }

var (
	revenueColor  = rgb{14, 165, 233}
	expensesColor = rgb{239, 68, 68}
	cashFlowColor = rgb{34, 197, 94}
)

type column struct {
	title string
	width float64
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string, dr models.DateRange, totalLine string, generated time.Time) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator("billing-admin", true)
	pdf.AddPage()

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFont("Helvetica", "", 20)
	pdf.Text(marginLeft, 22, d.tr(title))

	pdf.SetFont("Helvetica", "", 10)
	y := 30.0
	pdf.Text(marginLeft, y, fmt.Sprintf("Date Range: %s - %s", dr.StartDate.Format(rangeLayout), dr.EndDate.Format(rangeLayout)))
	if totalLine != "" {
		y += 6
		pdf.Text(marginLeft, y, d.tr(totalLine))
	}
	y += 6
	pdf.Text(marginLeft, y, "Generated: "+generated.Format(genLayout))
	return d
}

func (d *document) table(cols []column, fill rgb, fontSize float64, rows [][]string) {
	pdf := d.pdf
	pdf.SetXY(marginLeft, tableTop)

	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetFillColor(fill.r, fill.g, fill.b)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		pdf.CellFormat(c.width, rowHeight, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.SetX(marginLeft)
		for i, c := range cols {
			pdf.CellFormat(c.width, rowHeight, d.tr(d.fit(row[i], c.width-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit обрезает текст под ширину ячейки.
func (d *document) fit(s string, width float64) string {
	if d.pdf.GetStringWidth(d.tr(s)) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && d.pdf.GetStringWidth(d.tr(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// RevenuePDF строит PDF отчёта о выручке.
func RevenuePDF(items []models.RevenueItem, total decimal.Decimal, dr models.DateRange, generated time.Time) ([]byte, error) {
	const op = "export.RevenuePDF"
	d := newDocument("Revenue Report", dr, "Total Revenue: "+currency.Format(total, currency.USD), generated)

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			fmt.Sprint(it.ID),
			orDash(it.ClientName),
			it.Amount.StringFixed(2),
			it.Currency,
			it.PaymentDate.Format(cellLayout),
		})
	}
	d.table([]column{
		{"ID", 15}, {"Client", 70}, {"Amount", 35}, {"Currency", 25}, {"Date", 37},
	}, revenueColor, 9, rows)

	out, err := d.bytes()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// ExpensesPDF строит PDF отчёта о расходах.
func ExpensesPDF(items []models.ExpenseItem, total decimal.Decimal, dr models.DateRange, generated time.Time) ([]byte, error) {
	const op = "export.ExpensesPDF"
	d := newDocument("Expenses Report", dr, "Total Expenses: "+currency.Format(total, currency.USD), generated)

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			fmt.Sprint(it.ID),
			it.Type,
			it.Description,
			orDash(it.Vendor),
			it.Amount.StringFixed(2),
			it.Currency,
			it.PaidDate.Format(cellLayout),
		})
	}
	d.table([]column{
		{"ID", 12}, {"Type", 24}, {"Description", 52}, {"Vendor", 30}, {"Amount", 24}, {"Currency", 18}, {"Date", 22},
	}, expensesColor, 9, rows)

	out, err := d.bytes()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// CashFlowPDF строит PDF отчёта о движении денежных средств. Строки итога нет,
// суммы выводятся в таблице.
func CashFlowPDF(report models.CashFlowReport, generated time.Time) ([]byte, error) {
	const op = "export.CashFlowPDF"
	d := newDocument("Cash Flow Statement", report.DateRange, "", generated)

	d.table([]column{{"Category", 91}, {"Amount", 91}}, cashFlowColor, 12, [][]string{
		{"Total Revenue", currency.Format(report.Revenue, currency.USD)},
		{"Total Expenses", currency.Format(report.Expenses, currency.USD)},
		{"Net Cash Flow", currency.Format(report.Net, currency.USD)},
	})

	out, err := d.bytes()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
