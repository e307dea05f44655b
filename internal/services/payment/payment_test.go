package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, req models.PaymentRequest, status string) (*models.Payment, error) {
	args := m.Called(ctx, req, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepoMock) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepoMock) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *RepoMock) UpdatePayment(ctx context.Context, id int64, req models.PaymentRequest, status string) (*models.Payment, error) {
	args := m.Called(ctx, id, req, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *RepoMock) DeletePayment(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newService(repo *RepoMock) *PaymentService {
	svc := New(repo, newNoopLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestPaymentService_Create(t *testing.T) {
	tests := []struct {
		name        string
		paymentDate time.Time
		amount      decimal.Decimal
		setupMocks  func(r *RepoMock)
		wantStatus  string
		wantErr     error
	}{
		{
			name:        "future payment is pending",
			paymentDate: fixedNow.Add(24 * time.Hour),
			amount:      decimal.NewFromInt(100),
			setupMocks: func(r *RepoMock) {
				r.On("CreatePayment", mock.Anything, mock.Anything, models.PaymentStatusPending).
					Return(&models.Payment{ID: 1, Status: models.PaymentStatusPending}, nil).Once()
			},
			wantStatus: models.PaymentStatusPending,
		},
		{
			name:        "past payment is completed",
			paymentDate: fixedNow.Add(-24 * time.Hour),
			amount:      decimal.NewFromInt(100),
			setupMocks: func(r *RepoMock) {
				r.On("CreatePayment", mock.Anything, mock.Anything, models.PaymentStatusCompleted).
					Return(&models.Payment{ID: 2, Status: models.PaymentStatusCompleted}, nil).Once()
			},
			wantStatus: models.PaymentStatusCompleted,
		},
		{
			name:        "negative amount",
			paymentDate: fixedNow,
			amount:      decimal.NewFromInt(-5),
			setupMocks:  func(_ *RepoMock) {},
			wantErr:     apperr.ErrValidation,
		},
		{
			name:        "unknown client surfaces as validation",
			paymentDate: fixedNow,
			amount:      decimal.NewFromInt(5),
			setupMocks: func(r *RepoMock) {
				r.On("CreatePayment", mock.Anything, mock.Anything, models.PaymentStatusCompleted).
					Return(nil, apperr.NewValidationError("clientId", "references a missing record")).Once()
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			got, err := newService(repo).Create(context.Background(), models.PaymentRequest{
				ClientID: 1, Amount: tt.amount, Currency: "USD", PaymentDate: tt.paymentDate,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			repo.AssertExpectations(t)
		})
	}
}

func TestPaymentService_Update(t *testing.T) {
	existing := &models.Payment{
		ID: 4, ClientID: 1, Amount: decimal.NewFromInt(10), Currency: "USD",
		PaymentDate: fixedNow.Add(48 * time.Hour), Status: models.PaymentStatusPending,
	}

	t.Run("date change keeps status", func(t *testing.T) {
		repo := new(RepoMock)
		past := fixedNow.Add(-48 * time.Hour)
		repo.On("GetPayment", mock.Anything, int64(4)).Return(existing, nil).Once()
		repo.On("UpdatePayment", mock.Anything, int64(4), mock.MatchedBy(func(req models.PaymentRequest) bool {
			return req.PaymentDate.Equal(past)
		}), models.PaymentStatusPending).Return(existing, nil).Once()

		_, err := newService(repo).Update(context.Background(), 4, models.PaymentPatch{PaymentDate: &past})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("explicit status", func(t *testing.T) {
		repo := new(RepoMock)
		completed := models.PaymentStatusCompleted
		repo.On("GetPayment", mock.Anything, int64(4)).Return(existing, nil).Once()
		repo.On("UpdatePayment", mock.Anything, int64(4), mock.Anything, completed).Return(existing, nil).Once()

		_, err := newService(repo).Update(context.Background(), 4, models.PaymentPatch{Status: &completed})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("invalid status", func(t *testing.T) {
		repo := new(RepoMock)
		bogus := "refunded"

		_, err := newService(repo).Update(context.Background(), 4, models.PaymentPatch{Status: &bogus})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestPaymentService_GetListDelete(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPayment", mock.Anything, int64(1)).Return(nil, apperr.ErrNotFound).Once()
	repo.On("ListPayments", mock.Anything, models.PaymentFilter{Search: "acme"}).
		Return(nil, errors.New("connection reset")).Once()
	repo.On("DeletePayment", mock.Anything, int64(1)).Return(nil).Once()

	svc := newService(repo)

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.List(context.Background(), models.PaymentFilter{Search: "acme"})
	assert.Error(t, err)

	assert.NoError(t, svc.Delete(context.Background(), 1))
	repo.AssertExpectations(t)
}
