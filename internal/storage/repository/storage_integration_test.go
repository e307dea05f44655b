package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

func ptr[T any](v T) *T { return &v }

func createClient(t *testing.T, s *Storage, name string) *models.Client {
	t.Helper()
	c, err := s.CreateClient(context.Background(), models.ClientRequest{Name: name, Company: ptr(name + " LLC")})
	require.NoError(t, err)
	return c
}

func TestClientCRUD(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	acme := createClient(t, s, "Acme")
	createClient(t, s, "Globex")

	got, err := s.GetClient(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "Acme LLC", *got.Company)
	assert.Nil(t, got.Email)

	list, err := s.ListClients(ctx, models.ClientFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].Name)

	found, err := s.ListClients(ctx, models.ClientFilter{Search: "glob"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Globex", found[0].Name)

	updated, err := s.UpdateClient(ctx, acme.ID, models.ClientRequest{Name: "Acme Corp", Email: ptr("a@acme.io")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.Equal(t, "a@acme.io", *updated.Email)

	n, err := s.CountClients(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, s.DeleteClient(ctx, acme.ID))
	assert.ErrorIs(t, s.DeleteClient(ctx, acme.ID), apperr.ErrNotFound)

	_, err = s.GetClient(ctx, acme.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.UpdateClient(ctx, 999, models.ClientRequest{Name: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteClientCascades(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	c := createClient(t, s, "Acme")
	sub, err := s.CreateSubscription(ctx, models.SubscriptionRequest{
		ClientID: c.ID, Type: models.SubscriptionRecurring, Amount: decimal.NewFromInt(100),
		Currency: "USD", BillingCycle: ptr(models.CycleMonthly), StartDate: time.Now(),
	}, models.SubscriptionStatusActive)
	require.NoError(t, err)
	assert.Equal(t, "Acme", *sub.ClientName)

	pay, err := s.CreatePayment(ctx, models.PaymentRequest{
		ClientID: c.ID, SubscriptionID: &sub.ID, Amount: decimal.NewFromInt(100),
		Currency: "USD", PaymentDate: time.Now(),
	}, models.PaymentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionRecurring, *pay.SubscriptionType)

	require.NoError(t, s.DeleteClient(ctx, c.ID))

	_, err = s.GetSubscription(ctx, sub.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.GetPayment(ctx, pay.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteSubscriptionKeepsPayment(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	c := createClient(t, s, "Acme")
	sub, err := s.CreateSubscription(ctx, models.SubscriptionRequest{
		ClientID: c.ID, Type: models.SubscriptionOneTime, Amount: decimal.NewFromInt(50),
		Currency: "UZS", StartDate: time.Now(),
	}, models.SubscriptionStatusActive)
	require.NoError(t, err)

	pay, err := s.CreatePayment(ctx, models.PaymentRequest{
		ClientID: c.ID, SubscriptionID: &sub.ID, Amount: decimal.NewFromInt(50),
		Currency: "UZS", PaymentDate: time.Now(),
	}, models.PaymentStatusCompleted)
	require.NoError(t, err)

	require.NoError(t, s.DeleteSubscription(ctx, sub.ID))

	got, err := s.GetPayment(ctx, pay.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SubscriptionID)
	assert.Nil(t, got.SubscriptionType)
}

func TestCreatePayment_UnknownClient(t *testing.T) {
	s := setupStorage(t)

	_, err := s.CreatePayment(context.Background(), models.PaymentRequest{
		ClientID: 404, Amount: decimal.NewFromInt(1), Currency: "USD", PaymentDate: time.Now(),
	}, models.PaymentStatusCompleted)
	require.ErrorIs(t, err, apperr.ErrValidation)

	fields, ok := apperr.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "clientId")
}

func TestListFilters(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	acme := createClient(t, s, "Acme")
	globex := createClient(t, s, "Globex")
	for _, c := range []*models.Client{acme, globex} {
		_, err := s.CreatePayment(ctx, models.PaymentRequest{
			ClientID: c.ID, Amount: decimal.NewFromInt(10), Currency: "USD", PaymentDate: time.Now(),
		}, models.PaymentStatusCompleted)
		require.NoError(t, err)
	}
	_, err := s.CreatePayment(ctx, models.PaymentRequest{
		ClientID: acme.ID, Amount: decimal.NewFromInt(10), Currency: "USD", PaymentDate: time.Now().Add(48 * time.Hour),
	}, models.PaymentStatusPending)
	require.NoError(t, err)

	byClient, err := s.ListPayments(ctx, models.PaymentFilter{ClientID: &acme.ID})
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	pending, err := s.ListPayments(ctx, models.PaymentFilter{Status: models.PaymentStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	search, err := s.ListPayments(ctx, models.PaymentFilter{Search: "GLOB"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Globex", *search[0].ClientName)

	_, err = s.CreateExpense(ctx, models.ExpenseRequest{
		Type: models.ExpenseInfrastructure, Description: "Servers", Amount: decimal.NewFromInt(30),
		Currency: "USD", Vendor: ptr("Hetzner"),
	}, models.ExpenseStatusPending)
	require.NoError(t, err)
	_, err = s.CreateExpense(ctx, models.ExpenseRequest{
		Type: models.ExpenseLegal, Description: "Contract review", Amount: decimal.NewFromInt(300), Currency: "USD",
	}, models.ExpenseStatusPending)
	require.NoError(t, err)

	hetzner, err := s.ListExpenses(ctx, models.ExpenseFilter{Search: "hetz"})
	require.NoError(t, err)
	require.Len(t, hetzner, 1)
	assert.Equal(t, "Servers", hetzner[0].Description)

	legal, err := s.ListExpenses(ctx, models.ExpenseFilter{Type: models.ExpenseLegal})
	require.NoError(t, err)
	assert.Len(t, legal, 1)
}

func TestCreateUser_DefaultSettingsAndConflict(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "admin", "hash")
	require.NoError(t, err)

	settings, err := s.GetNotificationSettings(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultNotificationSettings(u.ID), *settings)

	_, err = s.CreateUser(ctx, "admin", "other")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	first, err := s.FirstUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, first.ID)

	require.NoError(t, s.SetTelegramChatID(ctx, u.ID, ptr("12345")))
	linked, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "12345", *linked.TelegramChatID)

	require.NoError(t, s.SetTelegramChatID(ctx, u.ID, nil))
	unlinked, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, unlinked.TelegramChatID)

	assert.ErrorIs(t, s.SetTelegramChatID(ctx, 999, nil), apperr.ErrNotFound)
}

func TestUpsertNotificationSettings(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "admin", "hash")
	require.NoError(t, err)

	want := models.DefaultNotificationSettings(u.ID)
	want.DailySummary = true
	want.RenewalReminderDays = 14

	got, err := s.UpsertNotificationSettings(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	want.RenewalReminderDays = 31
	_, err = s.UpsertNotificationSettings(ctx, want)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestExchangeRates(t *testing.T) {
	s := setupStorage(t)
	ctx := context.Background()

	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.CreateExchangeRate(ctx, models.ExchangeRateRequest{FromCurrency: "USD", ToCurrency: "UZS", Rate: decimal.NewFromInt(12000), EffectiveDate: jan})
	require.NoError(t, err)
	created, err := s.CreateExchangeRate(ctx, models.ExchangeRateRequest{FromCurrency: "USD", ToCurrency: "UZS", Rate: decimal.RequireFromString("12500.12345678"), EffectiveDate: jun})
	require.NoError(t, err)
	assert.True(t, created.Rate.Equal(decimal.RequireFromString("12500.12345678")))

	list, err := s.ListExchangeRates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].EffectiveDate.Equal(jun))

	latest, err := s.LatestExchangeRate(ctx, "USD", "UZS")
	require.NoError(t, err)
	assert.Equal(t, created.ID, latest.ID)

	_, err = s.LatestExchangeRate(ctx, "UZS", "USD")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, s.DeleteExchangeRate(ctx, created.ID))
	assert.ErrorIs(t, s.DeleteExchangeRate(ctx, created.ID), apperr.ErrNotFound)
}
