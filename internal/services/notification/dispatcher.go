package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/billing-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/billing-admin/internal/models"
)

var (
	notificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Total number of notifications handed to the dispatcher by kind",
		},
		[]string{"kind"},
	)

	notificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_failed_total",
			Help: "Total number of notifications that could not be dispatched by kind",
		},
		[]string{"kind"},
	)
)

// Dispatcher доставляет готовое уведомление.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification) error
}

// QueueDispatcher публикует уведомления в RabbitMQ, откуда их забирает сервис отправки.
type QueueDispatcher struct {
	ch         rabbitmq.Publisher
	exchange   string
	routingKey string
}

// NewQueueDispatcher создает диспетчер поверх канала ch.
func NewQueueDispatcher(ch rabbitmq.Publisher) *QueueDispatcher {
	return &QueueDispatcher{
		ch:         ch,
		exchange:   rabbitmq.Exchange,
		routingKey: rabbitmq.TelegramRoutingKey,
	}
}

// Dispatch дополняет уведомление идентификатором и временем создания и публикует его.
func (d *QueueDispatcher) Dispatch(ctx context.Context, n models.Notification) error {
	const op = "services.Dispatch"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := rabbitmq.PublishMessage(d.ch, d.exchange, d.routingKey, n); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
