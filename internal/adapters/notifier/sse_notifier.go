package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

// ErrNotifierBusy очередь диспетчера заполнена, событие не принято.
var ErrNotifierBusy = errors.New("sse notifier queue is full")

// clientChannel канал одного SSE-соединения (одной вкладки браузера).
type clientChannel chan []byte

type sseMessage struct {
	ctx       context.Context
	userID    int64
	eventType string
	data      []byte
}

// SSENotifier раздает события открытым SSE-соединениям пользователя.
// Один пользователь может держать несколько соединений.
type SSENotifier struct {
	clients map[int64][]clientChannel
	mu      sync.RWMutex

	eventChan chan sseMessage
	done      chan struct{}
	closeOnce sync.Once

	logger port.LoggerPort
}

func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients:   make(map[int64][]clientChannel),
		eventChan: make(chan sseMessage, 256),
		done:      make(chan struct{}),
		logger:    baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}
	go n.dispatcher()
	return n
}

func (n *SSENotifier) dispatcher() {
	n.logger.Debug("Notifier dispatcher started.", nil)
	for {
		select {
		case <-n.done:
			n.logger.Debug("Notifier dispatcher stopped.", nil)
			return
		case msg := <-n.eventChan:
			n.dispatch(msg)
		}
	}
}

func (n *SSENotifier) dispatch(msg sseMessage) {
	eventLogger := contextkeys.LoggerFromContext(msg.ctx).WithFields(port.Fields{
		"component":  "SSENotifier.dispatcher",
		"event_type": msg.eventType,
		"user_id":    msg.userID,
	})

	frame := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", msg.eventType, msg.data))

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels, found := n.clients[msg.userID]
	if !found {
		eventLogger.Debug("No active clients for user, event dropped.", nil)
		return
	}
	for _, ch := range channels {
		select {
		case ch <- frame:
		default:
			eventLogger.Warn("Client channel is full, skipping.", nil)
		}
	}
}

// Notify ставит событие в очередь диспетчера и не ждет доставки.
func (n *SSENotifier) Notify(ctx context.Context, event domain.NotificationEvent) error {
	data, err := json.Marshal(ToNotificationDTO(event.Notification))
	if err != nil {
		return fmt.Errorf("sse notifier: failed to marshal notification: %w", err)
	}
	return n.Forward(ctx, event.Notification.UserID, string(event.Type), data)
}

// Forward ставит в очередь уже сериализованное уведомление, например пришедшее из Redis.
func (n *SSENotifier) Forward(ctx context.Context, userID int64, eventType string, data []byte) error {
	select {
	case <-n.done:
		return fmt.Errorf("sse notifier is closed")
	default:
	}

	select {
	case n.eventChan <- sseMessage{ctx: context.WithoutCancel(ctx), userID: userID, eventType: eventType, data: data}:
		return nil
	default:
		return ErrNotifierBusy
	}
}

// AddClient регистрирует новое SSE-соединение пользователя.
func (n *SSENotifier) AddClient(userID int64) clientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(clientChannel, 64)
	n.clients[userID] = append(n.clients[userID], ch)

	n.logger.Info("Client connected for user", port.Fields{
		"user_id":                    userID,
		"total_connections_for_user": len(n.clients[userID]),
	})
	return ch
}

// RemoveClient вызывается обработчиком, когда клиент закрыл соединение.
func (n *SSENotifier) RemoveClient(userID int64, ch clientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels := n.clients[userID]
	kept := channels[:0]
	for _, c := range channels {
		if c != ch {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		delete(n.clients, userID)
	} else {
		n.clients[userID] = kept
	}

	n.logger.Info("Client disconnected for user", port.Fields{
		"user_id":               userID,
		"remaining_connections": len(kept),
	})
}

// Close останавливает диспетчер. Открытые соединения закрываются вместе с HTTP-сервером.
func (n *SSENotifier) Close() {
	n.closeOnce.Do(func() { close(n.done) })
}
