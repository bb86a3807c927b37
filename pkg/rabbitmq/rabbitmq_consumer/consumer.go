package rabbitmq_consumer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"saved-search-service/pkg/rabbitmq/rabbitmq_common"
	"saved-search-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Подтверждение делает пакет:
// nil - ack, ошибка - повтор через retry-очередь, Permanent(err) - сразу в DLQ.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent помечает ошибку как неисправимую: повторять сообщение бессмысленно.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent сообщает, была ли ошибка помечена через Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// RetryConfig включает отложенные повторы: основная очередь dead-letter'ит в
// RetryExchange, wait-очередь с TTL возвращает сообщение в основную очередь,
// после MaxRetries сообщение уходит в DeadLetterQueue.
type RetryConfig struct {
	RetryExchange      string
	RetryQueue         string
	RetryTTL           time.Duration
	DeadLetterExchange string
	DeadLetterQueue    string
	MaxRetries         int
}

// ConsumerConfig конфигурация потребителя.
type ConsumerConfig struct {
	QueueName       string
	ExchangeName    string
	ExchangeType    string
	RoutingKey      string
	DeclareExchange bool

	PrefetchCount int
	Workers       int // число одновременно обрабатываемых сообщений
	ConsumerTag   string

	Retry *RetryConfig

	Logger rabbitmq_common.Logger
}

func (c *ConsumerConfig) validate() error {
	if c.QueueName == "" {
		return fmt.Errorf("consumer: queue name is required")
	}
	if c.DeclareExchange && (c.ExchangeName == "" || c.ExchangeType == "") {
		return fmt.Errorf("consumer: exchange name and type are required to declare an exchange")
	}
	if r := c.Retry; r != nil {
		if r.RetryExchange == "" || r.RetryQueue == "" || r.DeadLetterExchange == "" || r.DeadLetterQueue == "" {
			return fmt.Errorf("consumer: retry exchange/queue and dead-letter exchange/queue are required")
		}
		if r.RetryTTL <= 0 {
			return fmt.Errorf("consumer: retry TTL must be positive")
		}
		if r.MaxRetries < 0 {
			return fmt.Errorf("consumer: max retries must not be negative")
		}
	}
	return nil
}

// Consumer читает очередь и раздает сообщения обработчику в пуле горутин.
type Consumer struct {
	config    ConsumerConfig
	handler   MessageHandler
	manager   *rabbitmq_common.ConnectionManager
	logger    rabbitmq_common.Logger
	dlxWriter *rabbitmq_producer.Publisher

	wg sync.WaitGroup
}

// NewConsumer проверяет конфигурацию. Подключение к очереди происходит в Run.
func NewConsumer(cfg ConsumerConfig, handler MessageHandler, manager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}
	if manager == nil {
		return nil, fmt.Errorf("consumer: connection manager is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PrefetchCount <= 0 {
		cfg.PrefetchCount = cfg.Workers
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	c := &Consumer{
		config:  cfg,
		handler: handler,
		manager: manager,
		logger:  logger,
	}

	if cfg.Retry != nil {
		dlx, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:    cfg.Retry.DeadLetterExchange,
			ExchangeType:    "direct",
			DurableExchange: true,
			DeclareExchange: true,
			Logger:          logger,
		}, manager)
		if err != nil {
			return nil, fmt.Errorf("consumer: failed to create dead-letter publisher: %w", err)
		}
		c.dlxWriter = dlx
	}

	return c, nil
}

// Run потребляет сообщения до отмены ctx, переподписываясь после обрывов.
// Возвращает nil при штатной остановке.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		err := c.consumeOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Error(err, "Consumer subscription ended, resubscribing",
			"queue", c.config.QueueName, "retry_in", c.manager.ReconnectInterval().String())

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.manager.ReconnectInterval()):
		}
	}
}

func (c *Consumer) consumeOnce(ctx context.Context) error {
	ch, err := c.manager.Channel()
	if err != nil {
		return err
	}
	defer func() {
		// канал закрываем только после того, как все ack/nack отправлены
		c.wg.Wait()
		if !ch.IsClosed() {
			_ = ch.Close()
		}
	}()

	if err := c.declareTopology(ch); err != nil {
		return err
	}
	if err := ch.Qos(c.config.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("consumer: failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(c.config.QueueName, c.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consumer: failed to register on queue '%s': %w", c.config.QueueName, err)
	}
	c.logger.Info("[*] Waiting for messages", "queue", c.config.QueueName, "workers", c.config.Workers)

	sem := make(chan struct{}, c.config.Workers)
	// обработка не прерывается на середине при остановке сервиса
	handlerCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Context cancelled, stopping consumer", "queue", c.config.QueueName)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer: deliveries channel closed for queue '%s'", c.config.QueueName)
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				// сообщение вернется в очередь при закрытии канала
				return nil
			}

			c.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer func() {
					<-sem
					c.wg.Done()
				}()
				c.process(handlerCtx, delivery)
			}(d)
		}
	}
}

func (c *Consumer) declareTopology(ch *amqp.Channel) error {
	if c.config.DeclareExchange {
		if err := ch.ExchangeDeclare(c.config.ExchangeName, c.config.ExchangeType, true, false, false, false, nil); err != nil {
			return fmt.Errorf("consumer: failed to declare exchange '%s': %w", c.config.ExchangeName, err)
		}
	}

	var queueArgs amqp.Table
	if r := c.config.Retry; r != nil {
		if err := ch.ExchangeDeclare(r.DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("consumer: failed to declare dead-letter exchange: %w", err)
		}
		if _, err := ch.QueueDeclare(r.DeadLetterQueue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("consumer: failed to declare dead-letter queue: %w", err)
		}
		if err := ch.QueueBind(r.DeadLetterQueue, c.config.QueueName, r.DeadLetterExchange, false, nil); err != nil {
			return fmt.Errorf("consumer: failed to bind dead-letter queue: %w", err)
		}

		if err := ch.ExchangeDeclare(r.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
			return fmt.Errorf("consumer: failed to declare retry exchange: %w", err)
		}
		// из wait-очереди сообщение возвращается напрямую в нашу очередь через default exchange,
		// другие подписчики основного обменника повтор не видят
		_, err := ch.QueueDeclare(r.RetryQueue, true, false, false, false, amqp.Table{
			"x-message-ttl":             int32(r.RetryTTL / time.Millisecond),
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": c.config.QueueName,
		})
		if err != nil {
			return fmt.Errorf("consumer: failed to declare retry queue: %w", err)
		}
		if err := ch.QueueBind(r.RetryQueue, "", r.RetryExchange, false, nil); err != nil {
			return fmt.Errorf("consumer: failed to bind retry queue: %w", err)
		}

		queueArgs = amqp.Table{"x-dead-letter-exchange": r.RetryExchange}
	}

	if _, err := ch.QueueDeclare(c.config.QueueName, true, false, false, false, queueArgs); err != nil {
		return fmt.Errorf("consumer: failed to declare queue '%s': %w", c.config.QueueName, err)
	}
	if c.config.ExchangeName != "" {
		if err := ch.QueueBind(c.config.QueueName, c.config.RoutingKey, c.config.ExchangeName, false, nil); err != nil {
			return fmt.Errorf("consumer: failed to bind queue '%s' to '%s': %w", c.config.QueueName, c.config.ExchangeName, err)
		}
	}
	return nil
}

func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	err := c.handler(ctx, d)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Error(ackErr, "Failed to ack message", "delivery_tag", d.DeliveryTag)
		}
		return
	}

	c.logger.Error(err, "Handler error", "queue", c.config.QueueName, "delivery_tag", d.DeliveryTag)

	r := c.config.Retry
	if r == nil {
		_ = d.Nack(false, false)
		return
	}

	deaths := rabbitmq_common.DeathCount(d, c.config.QueueName)
	if !IsPermanent(err) && deaths < int64(r.MaxRetries) {
		c.logger.Info("Scheduling retry", "delivery_tag", d.DeliveryTag, "death_count", deaths)
		_ = d.Nack(false, false)
		return
	}

	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers["x-last-error"] = err.Error()

	pubErr := c.dlxWriter.Publish(ctx, c.config.QueueName, amqp.Publishing{
		ContentType:  d.ContentType,
		Body:         d.Body,
		Headers:      headers,
		MessageId:    d.MessageId,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
	})
	if pubErr != nil {
		c.logger.Error(pubErr, "Failed to publish to dead-letter exchange, message goes to retry", "delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)
		return
	}
	c.logger.Warn("Message moved to dead-letter queue", "delivery_tag", d.DeliveryTag, "permanent", IsPermanent(err))
	_ = d.Ack(false)
}

// Close освобождает издателя DLX. Вызывать после остановки Run.
func (c *Consumer) Close() error {
	c.wg.Wait()
	if c.dlxWriter != nil {
		return c.dlxWriter.Close()
	}
	return nil
}
