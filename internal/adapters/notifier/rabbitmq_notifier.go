package notifier

import (
	"context"
	"fmt"
	"time"

	"saved-search-service/internal/constants"
	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher часть rabbitmq_producer.Publisher, нужная этому адаптеру.
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// RabbitMQNotifier отдает события воркерам email/push через notifications_exchange.
type RabbitMQNotifier struct {
	producer       publisher
	publishTimeout time.Duration
}

func NewRabbitMQNotifier(producer publisher) (*RabbitMQNotifier, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq notifier: producer cannot be nil")
	}
	return &RabbitMQNotifier{producer: producer, publishTimeout: 10 * time.Second}, nil
}

func routingKeyFor(eventType domain.NotificationEventType) string {
	if eventType == domain.EventNotificationRead {
		return constants.RoutingKeyNotificationRead
	}
	return constants.RoutingKeyNotificationCreated
}

func (n *RabbitMQNotifier) Notify(ctx context.Context, event domain.NotificationEvent) error {
	routingKey := routingKeyFor(event.Type)
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":       "RabbitMQNotifier",
		"routing_key":     routingKey,
		"notification_id": event.Notification.ID,
	})

	body, err := marshalEnvelope(event)
	if err != nil {
		return fmt.Errorf("rabbitmq notifier: failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    string(event.Type),
			constants.HeaderEventVersion: "1.0.0",
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, n.publishTimeout)
	defer cancel()

	if err := n.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish notification event", err, nil)
		return fmt.Errorf("rabbitmq notifier: failed to publish notification %d: %w", event.Notification.ID, err)
	}

	adapterLogger.Debug("Notification event published", nil)
	return nil
}
