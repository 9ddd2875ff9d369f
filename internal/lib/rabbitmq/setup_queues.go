package rabbitmq

const (
	// NotificationsExchange — direct-обменник для уведомлений.
	NotificationsExchange = "notifications"
	// RenewalRoutingKey — ключ маршрутизации напоминаний о продлении.
	RenewalRoutingKey = "renewal"
)

// QueueConfig описывает очередь и ключ, с которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляет планировщик.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.renewal", RoutingKey: RenewalRoutingKey},
	}
}
