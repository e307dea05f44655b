package settings

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/billing-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, userID int64) (*models.NotificationSettings, error) {
	args := m.Called(ctx, userID)
	ns, _ := args.Get(0).(*models.NotificationSettings)
	return ns, args.Error(1)
}

func (m *MockService) Update(ctx context.Context, userID int64, patch models.NotificationSettingsPatch) (*models.NotificationSettings, error) {
	args := m.Called(ctx, userID, patch)
	ns, _ := args.Get(0).(*models.NotificationSettings)
	return ns, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withUser(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middlewarectx.UserID, int64(1)))
}

func TestGet(t *testing.T) {
	defaults := models.DefaultNotificationSettings(1)
	svc := new(MockService)
	svc.On("Get", mock.Anything, int64(1)).Return(&defaults, nil).Once()
	h := New(newNoopLogger(), svc)

	w := httptest.NewRecorder()
	h.Get(w, withUser(httptest.NewRequest(http.MethodGet, "/notifications/settings", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"renewalReminderDays":7`)
	assert.Contains(t, w.Body.String(), `"dailySummary":false`)
	svc.AssertExpectations(t)
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "enables daily summary",
			body: `{"dailySummary":true,"renewalReminderDays":14}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p models.NotificationSettingsPatch) bool {
					return p.DailySummary != nil && *p.DailySummary && p.RenewalReminderDays != nil && *p.RenewalReminderDays == 14 && p.NotifyRenewals == nil
				})).Return(&models.NotificationSettings{UserID: 1, DailySummary: true, RenewalReminderDays: 14}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"renewalReminderDays":14`,
		},
		{
			name: "reminder days out of range",
			body: `{"renewalReminderDays":31}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, int64(1), mock.Anything).
					Return(nil, apperr.NewValidationError("renewalReminderDays", "must be at most 30")).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"renewalReminderDays":"must be at most 30"`,
		},
		{
			name:           "broken json",
			body:           `{"dailySummary":`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			w := httptest.NewRecorder()
			h.Update(w, withUser(httptest.NewRequest(http.MethodPut, "/notifications/settings", strings.NewReader(tt.body))))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
