package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	botmodels "github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/billing-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/billing-admin/internal/lib/apperr"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) HandleUpdate(ctx context.Context, update *botmodels.Update) {
	m.Called(ctx, update)
}

func (m *MockService) ConnectInfo(ctx context.Context) (*models.TelegramConnectInfo, error) {
	args := m.Called(ctx)
	info, _ := args.Get(0).(*models.TelegramConnectInfo)
	return info, args.Error(1)
}

func (m *MockService) Link(ctx context.Context, userID int64, chatID string) (*models.UserView, error) {
	args := m.Called(ctx, userID, chatID)
	u, _ := args.Get(0).(*models.UserView)
	return u, args.Error(1)
}

func (m *MockService) Unlink(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withUser(r *http.Request, id int64) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middlewarectx.UserID, id))
}

const startUpdate = `{"update_id":1,"message":{"message_id":5,"date":1710000000,"chat":{"id":4242,"type":"private"},"text":"/start"}}`

func TestWebhook(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		header         string
		body           string
		expectUpdate   bool
		expectedStatus int
	}{
		{name: "no secret configured", body: startUpdate, expectUpdate: true, expectedStatus: http.StatusOK},
		{name: "valid secret", secret: "s3cr3t", header: "s3cr3t", body: startUpdate, expectUpdate: true, expectedStatus: http.StatusOK},
		{name: "wrong secret", secret: "s3cr3t", header: "guess", body: startUpdate, expectedStatus: http.StatusUnauthorized},
		{name: "missing secret", secret: "s3cr3t", body: startUpdate, expectedStatus: http.StatusUnauthorized},
		{name: "broken body", body: `{"update_id":`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.expectUpdate {
				svc.On("HandleUpdate", mock.Anything, mock.MatchedBy(func(u *botmodels.Update) bool {
					return u.Message != nil && u.Message.Chat.ID == 4242 && u.Message.Text == "/start"
				})).Once()
			}
			h := New(newNoopLogger(), svc, tt.secret)

			req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set(SecretHeader, tt.header)
			}
			w := httptest.NewRecorder()
			h.Webhook(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
			if !tt.expectUpdate {
				svc.AssertNotCalled(t, "HandleUpdate", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestConnectInfo(t *testing.T) {
	svc := new(MockService)
	svc.On("ConnectInfo", mock.Anything).Return(&models.TelegramConnectInfo{
		BotUsername:  "billing_bot",
		Instructions: "Send /start to @billing_bot on Telegram",
	}, nil).Once()
	h := New(newNoopLogger(), svc, "")

	w := httptest.NewRecorder()
	h.ConnectInfo(w, httptest.NewRequest(http.MethodGet, "/telegram/connect", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"botUsername":"billing_bot"`)

	svc = new(MockService)
	svc.On("ConnectInfo", mock.Anything).Return(nil, errors.New("telegram down")).Once()
	h = New(newNoopLogger(), svc, "")

	w = httptest.NewRecorder()
	h.ConnectInfo(w, httptest.NewRequest(http.MethodGet, "/telegram/connect", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestConnect(t *testing.T) {
	chat := "4242"

	tests := []struct {
		name           string
		userID         int64
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "links chat",
			userID: 1,
			body:   `{"chatId":"4242"}`,
			setupMock: func(m *MockService) {
				m.On("Link", mock.Anything, int64(1), "4242").
					Return(&models.UserView{ID: 1, Username: "admin", TelegramChatID: &chat}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"telegramChatId":"4242"`,
		},
		{
			name:   "empty chat id",
			userID: 1,
			body:   `{"chatId":"  "}`,
			setupMock: func(m *MockService) {
				m.On("Link", mock.Anything, int64(1), "  ").
					Return(nil, apperr.NewValidationError("chatId", "is required")).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"chatId":"is required"`,
		},
		{
			name:           "no user",
			body:           `{"chatId":"4242"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc, "")

			req := httptest.NewRequest(http.MethodPost, "/telegram/connect", strings.NewReader(tt.body))
			if tt.userID > 0 {
				req = withUser(req, tt.userID)
			}
			w := httptest.NewRecorder()
			h.Connect(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestDisconnect(t *testing.T) {
	svc := new(MockService)
	svc.On("Unlink", mock.Anything, int64(1)).Return(nil).Once()
	h := New(newNoopLogger(), svc, "")

	w := httptest.NewRecorder()
	h.Disconnect(w, withUser(httptest.NewRequest(http.MethodDelete, "/telegram/disconnect", nil), 1))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"disconnected":true`)
	svc.AssertExpectations(t)
}
