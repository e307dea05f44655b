package models

import "time"

// Значения настроек уведомлений по умолчанию.
const (
	DefaultRenewalReminderDays = 7
	MinRenewalReminderDays     = 1
	MaxRenewalReminderDays     = 30
)

// NotificationSettings - настройки уведомлений пользователя.
type NotificationSettings struct {
	UserID                int64 `json:"userId"`
	NotifyOverduePayments bool  `json:"notifyOverduePayments"`
	NotifyRenewals        bool  `json:"notifyRenewals"`
	NotifyExpenses        bool  `json:"notifyExpenses"`
	DailySummary          bool  `json:"dailySummary"`
	RenewalReminderDays   int   `json:"renewalReminderDays"`
}

// DefaultNotificationSettings возвращает настройки новой учётной записи.
func DefaultNotificationSettings(userID int64) NotificationSettings {
	return NotificationSettings{
		UserID:                userID,
		NotifyOverduePayments: true,
		NotifyRenewals:        true,
		NotifyExpenses:        true,
		DailySummary:          false,
		RenewalReminderDays:   DefaultRenewalReminderDays,
	}
}

// NotificationSettingsPatch - частичное обновление настроек.
type NotificationSettingsPatch struct {
	NotifyOverduePayments *bool `json:"notifyOverduePayments,omitempty"`
	NotifyRenewals        *bool `json:"notifyRenewals,omitempty"`
	NotifyExpenses        *bool `json:"notifyExpenses,omitempty"`
	DailySummary          *bool `json:"dailySummary,omitempty"`
	RenewalReminderDays   *int  `json:"renewalReminderDays,omitempty" validate:"omitempty,min=1,max=30"`
}

// Apply накладывает патч на настройки.
func (p NotificationSettingsPatch) Apply(s *NotificationSettings) {
	if p.NotifyOverduePayments != nil {
		s.NotifyOverduePayments = *p.NotifyOverduePayments
	}
	if p.NotifyRenewals != nil {
		s.NotifyRenewals = *p.NotifyRenewals
	}
	if p.NotifyExpenses != nil {
		s.NotifyExpenses = *p.NotifyExpenses
	}
	if p.DailySummary != nil {
		s.DailySummary = *p.DailySummary
	}
	if p.RenewalReminderDays != nil {
		s.RenewalReminderDays = *p.RenewalReminderDays
	}
}

// Recipient - адресат плановых уведомлений: чат Telegram и текущие настройки.
type Recipient struct {
	UserID   int64
	Username string
	ChatID   *string
	Settings NotificationSettings
}

// Linked сообщает, привязан ли чат.
func (r *Recipient) Linked() bool {
	return r != nil && r.ChatID != nil && *r.ChatID != ""
}

// Виды уведомлений.
const (
	NotificationOverduePayment      = "overdue_payment"
	NotificationSubscriptionRenewal = "subscription_renewal"
	NotificationExpenseDue          = "expense_due"
	NotificationDailySummary        = "daily_summary"
	NotificationTelegramLinked      = "telegram_linked"
)

// Notification - готовое к отправке сообщение. Публикуется в очередь
// планировщиком и читается сервисом отправки.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ChatID    string    `json:"chatId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
