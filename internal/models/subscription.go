// Package models содержит доменные структуры приложения: сущности, запросы на создание,
// частичные обновления, фильтры списков и результаты агрегирующих запросов.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы подписок.
const (
	SubscriptionRecurring  = "recurring"
	SubscriptionOneTime    = "one_time"
	SubscriptionUsageBased = "usage_based"
	SubscriptionTrial      = "trial"
)

// Статусы подписок.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPaused    = "paused"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusTrial     = "trial"
)

// Периоды списания.
const (
	CycleDaily     = "daily"
	CycleWeekly    = "weekly"
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleYearly    = "yearly"
)

// Subscription - подписка клиента.
type Subscription struct {
	ID           int64           `json:"id"`
	ClientID     int64           `json:"clientId"`
	ClientName   *string         `json:"clientName,omitempty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
	BillingCycle *string         `json:"billingCycle,omitempty"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	TrialEndDate *time.Time      `json:"trialEndDate,omitempty"`
	UsageLimit   *int            `json:"usageLimit,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// SubscriptionRequest - данные для создания подписки. Статус не принимается:
// он выводится один раз при создании.
type SubscriptionRequest struct {
	ClientID     int64           `json:"clientId" validate:"required,gt=0"`
	Type         string          `json:"type" validate:"required,oneof=recurring one_time usage_based trial"`
	Amount       decimal.Decimal `json:"amount" validate:"gte=0"`
	Currency     string          `json:"currency" validate:"required,oneof=USD UZS"`
	BillingCycle *string         `json:"billingCycle,omitempty" validate:"omitempty,oneof=daily weekly monthly quarterly yearly"`
	StartDate    time.Time       `json:"startDate" validate:"required"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	TrialEndDate *time.Time      `json:"trialEndDate,omitempty"`
	UsageLimit   *int            `json:"usageLimit,omitempty" validate:"omitempty,gte=0"`
	Notes        *string         `json:"notes,omitempty"`
}

// InitialStatus возвращает статус новой подписки: trial, если задана дата окончания
// пробного периода, иначе active.
func (r SubscriptionRequest) InitialStatus() string {
	if r.TrialEndDate != nil {
		return SubscriptionStatusTrial
	}
	return SubscriptionStatusActive
}

// SubscriptionPatch - частичное обновление подписки.
type SubscriptionPatch struct {
	ClientID     *int64           `json:"clientId,omitempty"`
	Type         *string          `json:"type,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Currency     *string          `json:"currency,omitempty"`
	Status       *string          `json:"status,omitempty" validate:"omitempty,oneof=active paused cancelled expired trial"`
	BillingCycle *string          `json:"billingCycle,omitempty"`
	StartDate    *time.Time       `json:"startDate,omitempty"`
	EndDate      *time.Time       `json:"endDate,omitempty"`
	TrialEndDate *time.Time       `json:"trialEndDate,omitempty"`
	UsageLimit   *int             `json:"usageLimit,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// SubscriptionRequestFrom строит запрос из сохранённой подписки.
func SubscriptionRequestFrom(s *Subscription) SubscriptionRequest {
	return SubscriptionRequest{
		ClientID:     s.ClientID,
		Type:         s.Type,
		Amount:       s.Amount,
		Currency:     s.Currency,
		BillingCycle: s.BillingCycle,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		TrialEndDate: s.TrialEndDate,
		UsageLimit:   s.UsageLimit,
		Notes:        s.Notes,
	}
}

// Apply накладывает патч на запрос. Статус патча применяется отдельно.
func (p SubscriptionPatch) Apply(req *SubscriptionRequest) {
	if p.ClientID != nil {
		req.ClientID = *p.ClientID
	}
	if p.Type != nil {
		req.Type = *p.Type
	}
	if p.Amount != nil {
		req.Amount = *p.Amount
	}
	if p.Currency != nil {
		req.Currency = *p.Currency
	}
	if p.BillingCycle != nil {
		req.BillingCycle = p.BillingCycle
	}
	if p.StartDate != nil {
		req.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		req.EndDate = p.EndDate
	}
	if p.TrialEndDate != nil {
		req.TrialEndDate = p.TrialEndDate
	}
	if p.UsageLimit != nil {
		req.UsageLimit = p.UsageLimit
	}
	if p.Notes != nil {
		req.Notes = p.Notes
	}
}

// SubscriptionFilter - параметры списка подписок.
type SubscriptionFilter struct {
	ClientID *int64
	Status   string
	Type     string
}

// RenewingSubscription - подписка, продление которой приближается.
type RenewingSubscription struct {
	ID         int64
	Type       string
	Amount     decimal.Decimal
	Currency   string
	EndDate    time.Time
	ClientName *string
}
