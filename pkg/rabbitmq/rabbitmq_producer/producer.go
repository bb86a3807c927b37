package rabbitmq_producer

import (
	"context"
	"fmt"
	"sync"

	"saved-search-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig описывает обменник, в который пишет издатель.
type PublisherConfig struct {
	ExchangeName    string // пустая строка - default exchange
	ExchangeType    string // direct, fanout, topic, headers
	DurableExchange bool
	ExchangeArgs    amqp.Table
	// DeclareExchange объявляет обменник при каждом открытии канала.
	DeclareExchange bool

	Logger rabbitmq_common.Logger
}

// Publisher публикует сообщения в один обменник. Канал открывается лениво
// и переоткрывается после обрыва соединения.
type Publisher struct {
	config  PublisherConfig
	manager *rabbitmq_common.ConnectionManager
	logger  rabbitmq_common.Logger

	mu      sync.Mutex
	channel *amqp.Channel
}

// NewPublisher создает издателя и сразу проверяет, что канал открывается.
func NewPublisher(cfg PublisherConfig, manager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	if manager == nil {
		return nil, fmt.Errorf("producer: connection manager is required")
	}
	if cfg.DeclareExchange && (cfg.ExchangeName == "" || cfg.ExchangeType == "") {
		return nil, fmt.Errorf("producer: exchange name and type are required to declare an exchange")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	p := &Publisher{
		config:  cfg,
		manager: manager,
		logger:  logger,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.ensureChannel(); err != nil {
		return nil, err
	}
	return p, nil
}

// ensureChannel вызывается под p.mu.
func (p *Publisher) ensureChannel() (*amqp.Channel, error) {
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}

	ch, err := p.manager.Channel()
	if err != nil {
		return nil, fmt.Errorf("producer: %w", err)
	}

	if p.config.DeclareExchange {
		p.logger.Debug("Declaring exchange", "name", p.config.ExchangeName, "type", p.config.ExchangeType)
		err = ch.ExchangeDeclare(
			p.config.ExchangeName,
			p.config.ExchangeType,
			p.config.DurableExchange,
			false, // auto-delete
			false, // internal
			false, // no-wait
			p.config.ExchangeArgs,
		)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("producer: failed to declare exchange '%s': %w", p.config.ExchangeName, err)
		}
	}

	p.channel = ch
	return ch, nil
}

// Publish отправляет сообщение с заданным ключом маршрутизации.
// При закрытом канале делается одна попытка открыть новый.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for attempt := 0; attempt < 2; attempt++ {
		ch, err := p.ensureChannel()
		if err != nil {
			return err
		}

		err = ch.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg)
		if err == nil {
			return nil
		}
		if !ch.IsClosed() {
			return fmt.Errorf("producer: failed to publish message: %w", err)
		}
		p.logger.Warn("Publish channel closed, reopening", "exchange", p.config.ExchangeName)
		p.channel = nil
	}
	return fmt.Errorf("producer: channel closed while publishing to '%s'", p.config.ExchangeName)
}

// Close закрывает канал издателя. Соединение принадлежит менеджеру.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		p.channel = nil
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.logger.Error(err, "Error closing publisher channel")
		return err
	}
	p.logger.Debug("Publisher closed", "exchange", p.config.ExchangeName)
	return nil
}
