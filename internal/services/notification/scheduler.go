// Package services формирует плановые уведомления в Telegram и передаёт их диспетчеру.
//
// На каждом запуске сначала пересчитываются просроченные статусы, затем
// проверки (просроченные платежи, продления, сроки расходов, итоги дня)
// выполняются параллельно и не разделяют изменяемого состояния.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/magabrotheeeer/billing-admin/internal/lib/currency"
	"github.com/magabrotheeeer/billing-admin/internal/lib/daterange"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

const day = 24 * time.Hour

// SchedulerRepository — выборки, из которых строятся уведомления.
type SchedulerRepository interface {
	OverduePayments(ctx context.Context) ([]models.OverduePayment, error)
	RenewingSubscriptions(ctx context.Context, from, to time.Time) ([]models.RenewingSubscription, error)
	ExpensesDue(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	SumPayments(ctx context.Context, status string, from, to time.Time, currency string) (models.SumCount, error)
	SumPaidExpenses(ctx context.Context, from, to time.Time, currency, expenseType string) (models.SumCount, error)
	MarkOverduePayments(ctx context.Context, now time.Time) (int64, error)
	MarkOverdueExpenses(ctx context.Context, before time.Time) (int64, error)
}

// SchedulerService запускает задачи уведомлений.
type SchedulerService struct {
	repo       SchedulerRepository
	dispatcher Dispatcher
	recipient  RecipientResolver
	log        *slog.Logger
	now        func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SchedulerRepository, dispatcher Dispatcher, recipient RecipientResolver, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:       repo,
		dispatcher: dispatcher,
		recipient:  recipient,
		log:        log,
		now:        time.Now,
	}
}

type job struct {
	name string
	run  func(ctx context.Context) error
}

func (s *SchedulerService) checks() []job {
	return []job{
		{name: "overdue_payments", run: s.CheckOverduePayments},
		{name: "subscription_renewals", run: s.CheckSubscriptionRenewals},
		{name: "expense_due_dates", run: s.CheckExpenseDueDates},
		{name: "daily_summary", run: s.SendDailySummary},
	}
}

// Run выполняет цикл задач сразу, либо в firstRunAt (HH:MM), затем каждые interval.
// Возвращается после отмены ctx и завершения текущего цикла.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration, firstRunAt string) error {
	const op = "services.Run"
	delay, err := nextDelay(s.now(), firstRunAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if interval <= 0 {
		return fmt.Errorf("%s: interval must be positive", op)
	}

	s.log.Info("notification scheduler started",
		slog.Duration("first_run_in", delay),
		slog.Duration("interval", interval),
	)

	s.loop(ctx, delay, interval)

	s.log.Info("notification scheduler stopped")
	return nil
}

func (s *SchedulerService) loop(ctx context.Context, delay, interval time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	s.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce пересчитывает статусы и после этого параллельно запускает проверки.
// Ошибка пересчёта логируется и не отменяет проверки.
func (s *SchedulerService) RunOnce(ctx context.Context) {
	s.runJob(ctx, job{name: "reconcile_statuses", run: s.ReconcileStatuses})

	var wg sync.WaitGroup
	for _, j := range s.checks() {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			s.runJob(ctx, j)
		}(j)
	}
	wg.Wait()
}

func (s *SchedulerService) runJob(ctx context.Context, j job) {
	log := s.log.With(slog.String("job", j.name))
	log.Info("job started")
	if err := j.run(ctx); err != nil {
		log.Error("job failed", sl.Err(err))
		return
	}
	log.Info("job finished")
}

// nextDelay возвращает задержку до ближайшего firstRunAt. Пустая строка — запуск сразу.
func nextDelay(now time.Time, firstRunAt string) (time.Duration, error) {
	if firstRunAt == "" {
		return 0, nil
	}
	at, err := time.Parse("15:04", firstRunAt)
	if err != nil {
		return 0, err
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now), nil
}

func (s *SchedulerService) dispatch(ctx context.Context, kind, chatID, text string) {
	err := s.dispatcher.Dispatch(ctx, models.Notification{
		Kind:   kind,
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		notificationsFailed.WithLabelValues(kind).Inc()
		s.log.Error("failed to dispatch notification", slog.String("kind", kind), sl.Err(err))
		return
	}
	notificationsDispatched.WithLabelValues(kind).Inc()
}

// recipientFor возвращает привязанного адресата, если уведомление включено.
func (s *SchedulerService) recipientFor(ctx context.Context, enabled func(models.NotificationSettings) bool) (*models.Recipient, error) {
	r, err := s.recipient.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !r.Linked() {
		s.log.Debug("no linked telegram chat, skipping")
		return nil, nil
	}
	if !enabled(r.Settings) {
		s.log.Debug("notification disabled in settings, skipping", slog.Int64("user_id", r.UserID))
		return nil, nil
	}
	return r, nil
}

// CheckOverduePayments оповещает о каждом просроченном платеже.
func (s *SchedulerService) CheckOverduePayments(ctx context.Context) error {
	const op = "services.CheckOverduePayments"
	r, err := s.recipientFor(ctx, func(ns models.NotificationSettings) bool { return ns.NotifyOverduePayments })
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if r == nil {
		return nil
	}

	payments, err := s.repo.OverduePayments(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	for _, p := range payments {
		overdueDays := int(math.Floor(float64(now.Sub(p.PaymentDate)) / float64(day)))
		text := OverduePaymentMessage(
			nameOrUnknown(p.ClientName),
			nameOrUnknown(p.SubscriptionType),
			currency.Format(p.Amount, p.Currency),
			overdueDays,
		)
		s.dispatch(ctx, models.NotificationOverduePayment, *r.ChatID, text)
	}
	s.log.Info("overdue payments checked", slog.Int("count", len(payments)))
	return nil
}

// CheckSubscriptionRenewals напоминает о подписках, продлевающихся в ближайшие
// renewalReminderDays дней.
func (s *SchedulerService) CheckSubscriptionRenewals(ctx context.Context) error {
	const op = "services.CheckSubscriptionRenewals"
	r, err := s.recipientFor(ctx, func(ns models.NotificationSettings) bool { return ns.NotifyRenewals })
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if r == nil {
		return nil
	}

	reminderDays := r.Settings.RenewalReminderDays
	if reminderDays <= 0 {
		reminderDays = models.DefaultRenewalReminderDays
	}
	now := s.now()
	subs, err := s.repo.RenewingSubscriptions(ctx, now, now.AddDate(0, 0, reminderDays))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, sub := range subs {
		daysLeft := int(math.Ceil(float64(sub.EndDate.Sub(now)) / float64(day)))
		text := RenewalMessage(
			nameOrUnknown(sub.ClientName),
			sub.Type,
			currency.Format(sub.Amount, sub.Currency),
			sub.EndDate,
			daysLeft,
		)
		s.dispatch(ctx, models.NotificationSubscriptionRenewal, *r.ChatID, text)
	}
	s.log.Info("subscription renewals checked", slog.Int("count", len(subs)))
	return nil
}

// CheckExpenseDueDates напоминает о расходах со сроком оплаты сегодня.
func (s *SchedulerService) CheckExpenseDueDates(ctx context.Context) error {
	const op = "services.CheckExpenseDueDates"
	r, err := s.recipientFor(ctx, func(ns models.NotificationSettings) bool { return ns.NotifyExpenses })
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if r == nil {
		return nil
	}

	now := s.now()
	expenses, err := s.repo.ExpensesDue(ctx, daterange.StartOfDay(now), daterange.EndOfDay(now))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, e := range expenses {
		if e.DueDate == nil {
			continue
		}
		text := ExpenseDueMessage(e.Type, e.Description, currency.Format(e.Amount, e.Currency), *e.DueDate)
		s.dispatch(ctx, models.NotificationExpenseDue, *r.ChatID, text)
	}
	s.log.Info("expense due dates checked", slog.Int("count", len(expenses)))
	return nil
}

// SendDailySummary отправляет сумму поступлений и расходов за сегодня.
// Суммы складываются без конвертации и выводятся в USD.
func (s *SchedulerService) SendDailySummary(ctx context.Context) error {
	const op = "services.SendDailySummary"
	r, err := s.recipientFor(ctx, func(ns models.NotificationSettings) bool { return ns.DailySummary })
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if r == nil {
		return nil
	}

	now := s.now()
	start, end := daterange.StartOfDay(now), daterange.EndOfDay(now)
	received, err := s.repo.SumPayments(ctx, models.PaymentStatusCompleted, start, end, "")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	spent, err := s.repo.SumPaidExpenses(ctx, start, end, "", "")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	text := DailySummaryMessage(now,
		currency.Format(received.Sum, currency.USD),
		currency.Format(spent.Sum, currency.USD),
		currency.Format(received.Sum.Sub(spent.Sum), currency.USD),
	)
	s.dispatch(ctx, models.NotificationDailySummary, *r.ChatID, text)
	return nil
}

// ReconcileStatuses переводит в overdue платежи с прошедшей датой и расходы,
// срок которых истёк до начала сегодняшнего дня.
func (s *SchedulerService) ReconcileStatuses(ctx context.Context) error {
	const op = "services.ReconcileStatuses"
	now := s.now()
	payments, err := s.repo.MarkOverduePayments(ctx, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	expenses, err := s.repo.MarkOverdueExpenses(ctx, daterange.StartOfDay(now))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("statuses reconciled",
		slog.Int64("payments", payments),
		slog.Int64("expenses", expenses),
	)
	return nil
}
