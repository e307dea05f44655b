package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы платежей.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

// Payment - платёж клиента, опционально привязанный к подписке.
// При удалении подписки SubscriptionID обнуляется.
type Payment struct {
	ID               int64           `json:"id"`
	ClientID         int64           `json:"clientId"`
	SubscriptionID   *int64          `json:"subscriptionId"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	PaymentDate      time.Time       `json:"paymentDate"`
	Status           string          `json:"status"`
	Notes            *string         `json:"notes,omitempty"`
	ClientName       *string         `json:"clientName,omitempty"`
	SubscriptionType *string         `json:"subscriptionType,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// PaymentRequest - данные для создания платежа.
type PaymentRequest struct {
	ClientID       int64           `json:"clientId" validate:"required,gt=0"`
	SubscriptionID *int64          `json:"subscriptionId,omitempty" validate:"omitempty,gt=0"`
	Amount         decimal.Decimal `json:"amount" validate:"gte=0"`
	Currency       string          `json:"currency" validate:"required,oneof=USD UZS"`
	PaymentDate    time.Time       `json:"paymentDate" validate:"required"`
	Notes          *string         `json:"notes,omitempty"`
}

// InitialStatus возвращает pending для платежа в будущем и completed иначе.
func (r PaymentRequest) InitialStatus(now time.Time) string {
	if r.PaymentDate.After(now) {
		return PaymentStatusPending
	}
	return PaymentStatusCompleted
}

// PaymentPatch - частичное обновление платежа.
type PaymentPatch struct {
	ClientID       *int64           `json:"clientId,omitempty"`
	SubscriptionID *int64           `json:"subscriptionId,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	PaymentDate    *time.Time       `json:"paymentDate,omitempty"`
	Status         *string          `json:"status,omitempty" validate:"omitempty,oneof=pending completed overdue cancelled"`
	Notes          *string          `json:"notes,omitempty"`
}

// PaymentRequestFrom строит запрос из сохранённого платежа.
func PaymentRequestFrom(p *Payment) PaymentRequest {
	return PaymentRequest{
		ClientID:       p.ClientID,
		SubscriptionID: p.SubscriptionID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PaymentDate:    p.PaymentDate,
		Notes:          p.Notes,
	}
}

// Apply накладывает патч на запрос.
func (p PaymentPatch) Apply(req *PaymentRequest) {
	if p.ClientID != nil {
		req.ClientID = *p.ClientID
	}
	if p.SubscriptionID != nil {
		req.SubscriptionID = p.SubscriptionID
	}
	if p.Amount != nil {
		req.Amount = *p.Amount
	}
	if p.Currency != nil {
		req.Currency = *p.Currency
	}
	if p.PaymentDate != nil {
		req.PaymentDate = *p.PaymentDate
	}
	if p.Notes != nil {
		req.Notes = p.Notes
	}
}

// PaymentFilter - параметры списка платежей. Search ищет по имени клиента.
type PaymentFilter struct {
	ClientID       *int64
	SubscriptionID *int64
	Status         string
	Search         string
}

// OverduePayment - просроченный платёж для уведомления.
type OverduePayment struct {
	ID               int64
	Amount           decimal.Decimal
	Currency         string
	PaymentDate      time.Time
	ClientName       *string
	SubscriptionType *string
}
