package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-admin/internal/lib/daterange"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

func TestSubscriptionAggregates(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	c := createClient(t, s, "Acme")
	mk := func(amount int64, cycle string, status string, end *time.Time) {
		_, err := s.CreateSubscription(ctx, models.SubscriptionRequest{
			ClientID: c.ID, Type: models.SubscriptionRecurring, Amount: decimal.NewFromInt(amount),
			Currency: "USD", BillingCycle: ptr(cycle), StartDate: now.AddDate(0, -1, 0), EndDate: end,
		}, status)
		require.NoError(t, err)
	}
	soon := now.AddDate(0, 0, 3)
	later := now.AddDate(0, 2, 0)
	mk(100, models.CycleMonthly, models.SubscriptionStatusActive, &soon)
	mk(50, models.CycleMonthly, models.SubscriptionStatusActive, &later)
	mk(1200, models.CycleYearly, models.SubscriptionStatusActive, nil)
	mk(70, models.CycleMonthly, models.SubscriptionStatusPaused, &soon)

	mrr, err := s.SumMRR(ctx)
	require.NoError(t, err)
	assert.True(t, mrr.Equal(decimal.NewFromInt(150)), "got %s", mrr)

	active, err := s.CountActiveSubscriptions(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, active)

	renewing, err := s.RenewingSubscriptions(ctx, now, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, renewing, 1)
	assert.True(t, renewing[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "Acme", *renewing[0].ClientName)
}

func TestPaymentSumsAndOverdue(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	c := createClient(t, s, "Acme")
	pay := func(amount int64, currency string, date time.Time, status string) {
		_, err := s.CreatePayment(ctx, models.PaymentRequest{
			ClientID: c.ID, Amount: decimal.NewFromInt(amount), Currency: currency, PaymentDate: date,
		}, status)
		require.NoError(t, err)
	}
	pay(100, "USD", now.AddDate(0, 0, -1), models.PaymentStatusCompleted)
	pay(200, "USD", now.AddDate(0, 0, -40), models.PaymentStatusCompleted)
	pay(500000, "UZS", now.AddDate(0, 0, -2), models.PaymentStatusCompleted)
	pay(30, "USD", now.AddDate(0, 0, -5), models.PaymentStatusPending)
	pay(40, "USD", now.AddDate(0, 0, 5), models.PaymentStatusPending)

	week, err := s.SumPayments(ctx, models.PaymentStatusCompleted, now.AddDate(0, 0, -7), now, "USD")
	require.NoError(t, err)
	assert.True(t, week.Sum.Equal(decimal.NewFromInt(100)), "got %s", week.Sum)
	assert.EqualValues(t, 1, week.Count)

	all, err := s.SumPayments(ctx, models.PaymentStatusCompleted, time.Time{}, time.Time{}, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Count)

	none, err := s.SumPayments(ctx, models.PaymentStatusOverdue, time.Time{}, time.Time{}, "")
	require.NoError(t, err)
	assert.True(t, none.Sum.IsZero())
	assert.Zero(t, none.Count)

	marked, err := s.MarkOverduePayments(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)

	overdue, err := s.OverduePayments(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.True(t, overdue[0].Amount.Equal(decimal.NewFromInt(30)))
	assert.Nil(t, overdue[0].SubscriptionType)

	again, err := s.MarkOverduePayments(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestExpenseSumsAndDue(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	expense := func(typ string, amount int64, due, paid *time.Time, status string) {
		_, err := s.CreateExpense(ctx, models.ExpenseRequest{
			Type: typ, Description: typ, Amount: decimal.NewFromInt(amount), Currency: "USD",
			DueDate: due, PaidDate: paid,
		}, status)
		require.NoError(t, err)
	}
	yesterday := now.AddDate(0, 0, -1)
	inThreeDays := now.AddDate(0, 0, 3)
	lastWeek := now.AddDate(0, 0, -6)
	expense(models.ExpenseInfrastructure, 100, nil, &yesterday, models.ExpenseStatusPaid)
	expense(models.ExpenseLegal, 300, nil, &lastWeek, models.ExpenseStatusPaid)
	expense(models.ExpenseInfrastructure, 20, &inThreeDays, nil, models.ExpenseStatusPending)
	expense(models.ExpenseMarketing, 60, &yesterday, nil, models.ExpenseStatusPending)

	paid, err := s.SumPaidExpenses(ctx, now.AddDate(0, 0, -7), now, "", "")
	require.NoError(t, err)
	assert.True(t, paid.Sum.Equal(decimal.NewFromInt(400)), "got %s", paid.Sum)
	assert.EqualValues(t, 2, paid.Count)

	infra, err := s.SumPaidExpenses(ctx, now.AddDate(0, 0, -7), now, "USD", models.ExpenseInfrastructure)
	require.NoError(t, err)
	assert.True(t, infra.Sum.Equal(decimal.NewFromInt(100)))

	upcoming, err := s.SumPendingExpensesDue(ctx, now, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.True(t, upcoming.Sum.Equal(decimal.NewFromInt(20)))
	assert.EqualValues(t, 1, upcoming.Count)

	due, err := s.ExpensesDue(ctx, now, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, models.ExpenseInfrastructure, due[0].Type)

	startOfToday := daterange.StartOfDay(now)
	expense(models.ExpenseAccounting, 40, &startOfToday, nil, models.ExpenseStatusPending)

	marked, err := s.MarkOverdueExpenses(ctx, startOfToday)
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)

	dueToday, err := s.ExpensesDue(ctx, startOfToday, daterange.EndOfDay(now))
	require.NoError(t, err)
	require.Len(t, dueToday, 1)
	assert.Equal(t, models.ExpenseAccounting, dueToday[0].Type)

	overdue, err := s.ListExpenses(ctx, models.ExpenseFilter{Status: models.ExpenseStatusOverdue})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, models.ExpenseMarketing, overdue[0].Type)
}

func TestReportQueries(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()
	now := time.Now().UTC()

	c := createClient(t, s, "Acme")
	for i, amount := range []int64{10, 20} {
		_, err := s.CreatePayment(ctx, models.PaymentRequest{
			ClientID: c.ID, Amount: decimal.NewFromInt(amount), Currency: "USD",
			PaymentDate: now.AddDate(0, 0, -(i + 1)),
		}, models.PaymentStatusCompleted)
		require.NoError(t, err)
	}
	_, err := s.CreatePayment(ctx, models.PaymentRequest{
		ClientID: c.ID, Amount: decimal.NewFromInt(99), Currency: "UZS", PaymentDate: now.AddDate(0, 0, -1),
	}, models.PaymentStatusCompleted)
	require.NoError(t, err)

	paidAt := now.AddDate(0, 0, -2)
	for _, typ := range []string{models.ExpenseVendor, models.ExpenseLegal, models.ExpenseLegal} {
		_, err := s.CreateExpense(ctx, models.ExpenseRequest{
			Type: typ, Description: typ, Amount: decimal.NewFromInt(5), Currency: "USD", PaidDate: &paidAt,
		}, models.ExpenseStatusPaid)
		require.NoError(t, err)
	}

	f := models.ReportFilter{Start: now.AddDate(0, 0, -30), End: now, Currency: "USD"}

	revenue, err := s.RevenueItems(ctx, f)
	require.NoError(t, err)
	require.Len(t, revenue, 2)
	assert.True(t, revenue[0].Amount.Equal(decimal.NewFromInt(10)), "newest first")
	assert.Equal(t, "Acme", *revenue[0].ClientName)

	items, err := s.ExpenseItems(ctx, models.ReportFilter{Start: f.Start, End: f.End, Type: models.ExpenseLegal})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	byType, err := s.ExpenseTotalsByType(ctx, f)
	require.NoError(t, err)
	require.Len(t, byType, 2)
	assert.Equal(t, models.ExpenseLegal, byType[0].Type)
	assert.True(t, byType[0].Total.Equal(decimal.NewFromInt(10)))
	assert.EqualValues(t, 2, byType[0].Count)

	empty, err := s.RevenueItems(ctx, models.ReportFilter{Start: now.AddDate(-2, 0, 0), End: now.AddDate(-1, 0, 0)})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
