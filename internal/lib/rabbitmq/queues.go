package rabbitmq

// Топология уведомлений.
const (
	Exchange           = "notifications"
	TelegramQueue      = "notifications.telegram"
	TelegramRoutingKey = "telegram"

	prefetch = 10
)

// QueueConfig — очередь и ключ маршрутизации, которым она привязана к Exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues возвращает очереди, которые объявляют планировщик и отправщик.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: TelegramQueue, RoutingKey: TelegramRoutingKey},
	}
}
