package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/billing-admin/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetMetrics(ctx context.Context, token string, from, to *time.Time) (*models.DashboardMetrics, error) {
	args := m.Called(ctx, token, from, to)
	res, _ := args.Get(0).(*models.DashboardMetrics)
	return res, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestMetrics(t *testing.T) {
	noDate := (*time.Time)(nil)

	tests := []struct {
		name           string
		url            string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "defaults to this month",
			url:  "/dashboard/metrics",
			setupMock: func(m *MockService) {
				m.On("GetMetrics", mock.Anything, "this_month", noDate, noDate).
					Return(&models.DashboardMetrics{TotalMRR: decimal.NewFromInt(500)}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"totalMRR":"500"`,
		},
		{
			name: "custom range",
			url:  "/dashboard/metrics?dateRange=custom&from=2024-01-01&to=2024-01-31",
			setupMock: func(m *MockService) {
				m.On("GetMetrics", mock.Anything, "custom",
					mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Day() == 1 && t.Month() == time.January }),
					mock.MatchedBy(func(t *time.Time) bool { return t != nil && t.Day() == 31 }),
				).Return(&models.DashboardMetrics{DateRange: models.DateRange{Type: "custom"}}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"type":"custom"`,
		},
		{
			name:           "bad from date",
			url:            "/dashboard/metrics?dateRange=custom&from=01.01.2024",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid from`,
		},
		{
			name: "storage failure",
			url:  "/dashboard/metrics?dateRange=today",
			setupMock: func(m *MockService) {
				m.On("GetMetrics", mock.Anything, "today", noDate, noDate).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not calculate metrics`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			w := httptest.NewRecorder()
			h.Metrics(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
