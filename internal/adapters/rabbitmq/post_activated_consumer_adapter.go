package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"saved-search-service/internal/constants"
	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/contracts"
	"saved-search-service/internal/core/port"
	"saved-search-service/internal/core/port/usecases_port"
	"saved-search-service/pkg/rabbitmq/rabbitmq_common"
	"saved-search-service/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PostActivatedEventDTO тело события PostActivatedEvent v1.0.0.
type PostActivatedEventDTO struct {
	PostID      int64      `json:"post_id"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
}

// PostActivatedConsumerAdapter запускает рассылку по сохраненным поискам,
// когда другой сервис сообщает об активации объявления.
type PostActivatedConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	useCase  usecases_port.NotifyMatchingSearchesUseCasePort
	logger   port.LoggerPort
}

// PostActivatedConsumerConfig параметры очереди, которые приходят из конфигурации.
type PostActivatedConsumerConfig struct {
	Workers    int
	MaxRetries int
	RetryTTL   time.Duration
}

func NewPostActivatedConsumerAdapter(
	cfg PostActivatedConsumerConfig,
	uc usecases_port.NotifyMatchingSearchesUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*PostActivatedConsumerAdapter, error) {
	adapter := &PostActivatedConsumerAdapter{
		useCase: uc,
		logger:  logger.WithFields(port.Fields{"component": "PostActivatedConsumerAdapter"}),
	}

	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		QueueName:       constants.QueuePostActivated,
		ExchangeName:    constants.PostsExchange,
		ExchangeType:    "topic",
		RoutingKey:      constants.RoutingKeyPostActivated,
		DeclareExchange: true,
		Workers:         cfg.Workers,
		ConsumerTag:     "saved-search-service-post-activated",
		Retry: &rabbitmq_consumer.RetryConfig{
			RetryExchange:      constants.PostActivatedRetryExchange,
			RetryQueue:         constants.PostActivatedRetryQueue,
			RetryTTL:           cfg.RetryTTL,
			DeadLetterExchange: constants.PostActivatedDLX,
			DeadLetterQueue:    constants.PostActivatedDLQ,
			MaxRetries:         cfg.MaxRetries,
		},
		Logger: NewPkgLoggerBridge(logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "queue": constants.QueuePostActivated})),
	}

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create post activated consumer: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

func headerString(d amqp.Delivery, key, fallback string) string {
	if v, ok := d.Headers[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// messageHandler обрабатывает одно событие. Невалидные сообщения уходят сразу в DLQ,
// ошибки use case повторяются через retry-очередь.
func (a *PostActivatedConsumerAdapter) messageHandler(ctx context.Context, d amqp.Delivery) error {
	traceID := headerString(d, constants.HeaderTraceID, "")
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	eventType := headerString(d, constants.HeaderEventType, constants.EventTypePostActivated)
	eventVersion := headerString(d, constants.HeaderEventVersion, constants.EventVersionPostActivated)

	if eventType != constants.EventTypePostActivated {
		msgLogger.Warn("Unexpected event type, rejecting message.", port.Fields{"event_type": eventType})
		return rabbitmq_consumer.Permanent(fmt.Errorf("unexpected event type %q", eventType))
	}
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Event failed schema validation, rejecting message.", err, port.Fields{"event_version": eventVersion})
		return rabbitmq_consumer.Permanent(err)
	}

	var dto PostActivatedEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		msgLogger.Error("Failed to unmarshal post activated event, rejecting message.", err, nil)
		return rabbitmq_consumer.Permanent(err)
	}

	handlerLogger := msgLogger.WithFields(port.Fields{"post_id": dto.PostID})
	ctx = contextkeys.ContextWithLogger(ctx, handlerLogger)

	handlerLogger.Info("Processing post activated event.", nil)
	if err := a.useCase.Execute(ctx, dto.PostID); err != nil {
		handlerLogger.Error("Failed to notify matching searches, message will be retried.", err, nil)
		return err
	}

	handlerLogger.Info("Successfully processed post activated event.", nil)
	return nil
}

// Start блокирует до отмены ctx.
func (a *PostActivatedConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.Run(ctx)
}

func (a *PostActivatedConsumerAdapter) Close() error { return a.consumer.Close() }
