package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы расходов.
const (
	ExpenseVendor          = "vendor"
	ExpenseContractor      = "contractor"
	ExpenseSoftwareLicense = "software_license"
	ExpenseInfrastructure  = "infrastructure"
	ExpenseMarketing       = "marketing"
	ExpenseOfficeSupplies  = "office_supplies"
	ExpenseLegal           = "legal"
	ExpenseAccounting      = "accounting"
	ExpenseOther           = "other"
)

// Статусы расходов.
const (
	ExpenseStatusPending   = "pending"
	ExpenseStatusPaid      = "paid"
	ExpenseStatusOverdue   = "overdue"
	ExpenseStatusCancelled = "cancelled"
)

// Expense - расход компании.
type Expense struct {
	ID                int64           `json:"id"`
	Type              string          `json:"type"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	DueDate           *time.Time      `json:"dueDate,omitempty"`
	PaidDate          *time.Time      `json:"paidDate,omitempty"`
	Status            string          `json:"status"`
	Recurring         bool            `json:"recurring"`
	RecurringInterval *string         `json:"recurringInterval,omitempty"`
	Vendor            *string         `json:"vendor,omitempty"`
	Category          *string         `json:"category,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ExpenseRequest - данные для создания расхода.
type ExpenseRequest struct {
	Type              string          `json:"type" validate:"required,oneof=vendor contractor software_license infrastructure marketing office_supplies legal accounting other"`
	Description       string          `json:"description" validate:"required,max=500"`
	Amount            decimal.Decimal `json:"amount" validate:"gte=0"`
	Currency          string          `json:"currency" validate:"required,oneof=USD UZS"`
	DueDate           *time.Time      `json:"dueDate,omitempty"`
	PaidDate          *time.Time      `json:"paidDate,omitempty"`
	Recurring         bool            `json:"recurring"`
	RecurringInterval *string         `json:"recurringInterval,omitempty" validate:"omitempty,oneof=daily weekly monthly quarterly yearly"`
	Vendor            *string         `json:"vendor,omitempty" validate:"omitempty,max=255"`
	Category          *string         `json:"category,omitempty" validate:"omitempty,max=255"`
	Notes             *string         `json:"notes,omitempty"`
}

// InitialStatus: paid, если указана дата оплаты; overdue, если срок уже прошёл; иначе pending.
func (r ExpenseRequest) InitialStatus(now time.Time) string {
	switch {
	case r.PaidDate != nil:
		return ExpenseStatusPaid
	case r.DueDate != nil && r.DueDate.Before(now):
		return ExpenseStatusOverdue
	default:
		return ExpenseStatusPending
	}
}

// ExpensePatch - частичное обновление расхода.
type ExpensePatch struct {
	Type              *string          `json:"type,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Currency          *string          `json:"currency,omitempty"`
	DueDate           *time.Time       `json:"dueDate,omitempty"`
	PaidDate          *time.Time       `json:"paidDate,omitempty"`
	Status            *string          `json:"status,omitempty" validate:"omitempty,oneof=pending paid overdue cancelled"`
	Recurring         *bool            `json:"recurring,omitempty"`
	RecurringInterval *string          `json:"recurringInterval,omitempty"`
	Vendor            *string          `json:"vendor,omitempty"`
	Category          *string          `json:"category,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// ExpenseRequestFrom строит запрос из сохранённого расхода.
func ExpenseRequestFrom(e *Expense) ExpenseRequest {
	return ExpenseRequest{
		Type:              e.Type,
		Description:       e.Description,
		Amount:            e.Amount,
		Currency:          e.Currency,
		DueDate:           e.DueDate,
		PaidDate:          e.PaidDate,
		Recurring:         e.Recurring,
		RecurringInterval: e.RecurringInterval,
		Vendor:            e.Vendor,
		Category:          e.Category,
		Notes:             e.Notes,
	}
}

// Apply накладывает патч на запрос.
func (p ExpensePatch) Apply(req *ExpenseRequest) {
	if p.Type != nil {
		req.Type = *p.Type
	}
	if p.Description != nil {
		req.Description = *p.Description
	}
	if p.Amount != nil {
		req.Amount = *p.Amount
	}
	if p.Currency != nil {
		req.Currency = *p.Currency
	}
	if p.DueDate != nil {
		req.DueDate = p.DueDate
	}
	if p.PaidDate != nil {
		req.PaidDate = p.PaidDate
	}
	if p.Recurring != nil {
		req.Recurring = *p.Recurring
	}
	if p.RecurringInterval != nil {
		req.RecurringInterval = p.RecurringInterval
	}
	if p.Vendor != nil {
		req.Vendor = p.Vendor
	}
	if p.Category != nil {
		req.Category = p.Category
	}
	if p.Notes != nil {
		req.Notes = p.Notes
	}
}

// ExpenseFilter - параметры списка расходов. Search ищет по описанию и поставщику.
type ExpenseFilter struct {
	Search string
	Type   string
	Status string
}
