// Package services доставляет уведомления из очереди в Telegram.
package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

var (
	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications delivered to Telegram by kind",
		},
		[]string{"kind"},
	)

	notificationsSendFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_send_failed_total",
			Help: "Total number of notifications Telegram rejected by kind",
		},
		[]string{"kind"},
	)
)

// Transport отправляет HTML-сообщение в чат.
type Transport interface {
	SendHTML(ctx context.Context, chatID, text string) error
}

// SenderService разбирает сообщения очереди и отправляет их через Transport.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport Transport, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// HandleMessage всегда возвращает nil: битое сообщение и ошибка отправки
// логируются, сообщение подтверждается и повторно не доставляется.
func (s *SenderService) HandleMessage(ctx context.Context, body []byte) error {
	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		s.log.Error("failed to unmarshal notification, dropping", sl.Err(err))
		return nil
	}
	if n.ChatID == "" {
		s.log.Warn("notification without chat id, dropping", slog.String("id", n.ID), slog.String("kind", n.Kind))
		return nil
	}

	log := s.log.With(slog.String("id", n.ID), slog.String("kind", n.Kind))
	if err := s.transport.SendHTML(ctx, n.ChatID, n.Text); err != nil {
		notificationsSendFailed.WithLabelValues(n.Kind).Inc()
		log.Error("failed to send notification", sl.Err(err))
		return nil
	}
	notificationsSent.WithLabelValues(n.Kind).Inc()
	log.Info("notification sent")
	return nil
}
