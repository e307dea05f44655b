// Package sender собирает сервис отправки: читает уведомления из очереди
// и доставляет их в Telegram.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/billing-admin/internal/config"
	"github.com/magabrotheeeer/billing-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/billing-admin/internal/lib/sl"
	"github.com/magabrotheeeer/billing-admin/internal/lib/telegram"
	senderservice "github.com/magabrotheeeer/billing-admin/internal/services/sender"
)

// App — приложение отправки уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New подключается к брокеру и создаёт клиента Bot API. Без токена бота
// сервис не запускается.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	bot, err := telegram.New(cfg.Telegram.BotToken)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewSenderService(bot, logger),
		logger:        logger,
	}, nil
}

// Run потребляет очередь Telegram до отмены ctx и дожидается обработки
// уже полученных сообщений.
func (a *App) Run(ctx context.Context) error {
	done, err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.TelegramQueue, a.senderService.HandleMessage, a.logger)
	if err != nil {
		a.logger.Error("failed to start telegram queue consumer", sl.Err(err))
		return fmt.Errorf("app.sender.Run: %w", err)
	}

	<-done
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
