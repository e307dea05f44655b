package services

import (
	"fmt"
	"time"
)

// unknown подставляется вместо отсутствующего имени клиента или подписки.
const unknown = "Unknown"

const messageDateLayout = "2006-01-02"

func nameOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return unknown
	}
	return *s
}

// OverduePaymentMessage — оповещение о просроченном платеже.
func OverduePaymentMessage(client, subscription, amount string, overdueDays int) string {
	return fmt.Sprintf("⚠️ <b>Overdue Payment Alert!</b>\n\n"+
		"Client: %s\n"+
		"Subscription: %s\n"+
		"Amount Due: %s\n"+
		"Overdue by: %d days", client, subscription, amount, overdueDays)
}

// RenewalMessage — напоминание о продлении подписки.
func RenewalMessage(client, plan, amount string, renewalDate time.Time, daysLeft int) string {
	return fmt.Sprintf("📋 <b>Subscription Renewing Soon!</b>\n\n"+
		"Client: %s\n"+
		"Plan: %s\n"+
		"Amount: %s\n"+
		"Renewal Date: %s (%d days)", client, plan, amount, renewalDate.Format(messageDateLayout), daysLeft)
}

// ExpenseDueMessage — напоминание о сроке оплаты расхода.
func ExpenseDueMessage(expenseType, description, amount string, dueDate time.Time) string {
	return fmt.Sprintf("💳 <b>Expense Payment Due</b>\n\n"+
		"Type: %s\n"+
		"Description: %s\n"+
		"Amount: %s\n"+
		"Due Date: %s", expenseType, description, amount, dueDate.Format(messageDateLayout))
}

// DailySummaryMessage — итоги дня.
func DailySummaryMessage(date time.Time, received, expenses, net string) string {
	return fmt.Sprintf("📊 <b>Daily Summary</b>\n\n"+
		"Date: %s\n"+
		"✅ Payments Received: %s\n"+
		"💸 Expenses: %s\n"+
		"📈 Net: %s", date.Format(messageDateLayout), received, expenses, net)
}

// TelegramLinkedMessage отправляется после привязки чата.
func TelegramLinkedMessage(username string) string {
	return fmt.Sprintf("✅ <b>Telegram Account Linked!</b>\n\n"+
		"Hello, %s!\n"+
		"Your Telegram account is now linked to the Subscriptions App.\n\n"+
		"Use /settings to configure notifications.", username)
}
