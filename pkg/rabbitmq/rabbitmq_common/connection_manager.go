package rabbitmq_common

import (
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrManagerClosed возвращается после вызова Close.
var ErrManagerClosed = errors.New("rabbitmq connection manager is closed")

// ConnectionManager держит одно AMQP-соединение на сервис и восстанавливает его
// после обрыва. Каналы открываются поверх общего соединения.
type ConnectionManager struct {
	cfg    Config
	logger Logger

	mu     sync.RWMutex
	conn   *amqp.Connection
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewConnectionManager подключается к брокеру и запускает фоновое переподключение.
func NewConnectionManager(cfg Config, logger Logger) (*ConnectionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNoopLogger()
	}

	m := &ConnectionManager{
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}
	m.conn = conn
	logger.Info("ConnectionManager: connected")

	m.wg.Add(1)
	go m.watch(conn)

	return m, nil
}

// watch ждет закрытия соединения и переподключается, пока менеджер не закрыт.
func (m *ConnectionManager) watch(conn *amqp.Connection) {
	defer m.wg.Done()

	for {
		closeCh := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-m.done:
			return
		case amqpErr := <-closeCh:
			select {
			case <-m.done:
				return
			default:
			}
			m.logger.Warn("ConnectionManager: connection lost, reconnecting", "reason", amqpErr)
		}

		next, ok := m.redial()
		if !ok {
			return
		}
		conn = next
	}
}

func (m *ConnectionManager) redial() (*amqp.Connection, bool) {
	interval := m.cfg.reconnectInterval()
	for {
		select {
		case <-m.done:
			return nil, false
		case <-time.After(interval):
		}

		conn, err := amqp.Dial(m.cfg.URL)
		if err != nil {
			m.logger.Error(err, "ConnectionManager: reconnect failed", "retry_in", interval.String())
			continue
		}

		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			_ = conn.Close()
			return nil, false
		}
		m.conn = conn
		m.mu.Unlock()

		m.logger.Info("ConnectionManager: reconnected")
		return conn, true
	}
}

// Channel открывает новый канал на текущем соединении.
func (m *ConnectionManager) Channel() (*amqp.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrManagerClosed
	}
	if m.conn == nil || m.conn.IsClosed() {
		return nil, fmt.Errorf("ConnectionManager: connection is not available")
	}
	ch, err := m.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("ConnectionManager: failed to open a channel: %w", err)
	}
	return ch, nil
}

// ReconnectInterval пауза между попытками восстановления для потребителей и издателей.
func (m *ConnectionManager) ReconnectInterval() time.Duration {
	return m.cfg.reconnectInterval()
}

// Close закрывает соединение и останавливает переподключение.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.done)
	conn := m.conn
	m.mu.Unlock()

	var err error
	if conn != nil && !conn.IsClosed() {
		err = conn.Close()
	}
	m.wg.Wait()

	if err != nil {
		m.logger.Error(err, "ConnectionManager: failed to close connection properly")
		return err
	}
	m.logger.Debug("ConnectionManager: connection closed")
	return nil
}
