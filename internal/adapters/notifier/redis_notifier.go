package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"

	goredis "github.com/redis/go-redis/v9"
)

const userChannelPrefix = "notifications:user:"

// UserChannel канал Redis pub/sub для событий одного пользователя.
func UserChannel(userID int64) string {
	return userChannelPrefix + strconv.FormatInt(userID, 10)
}

func userIDFromChannel(channel string) (int64, error) {
	raw, ok := strings.CutPrefix(channel, userChannelPrefix)
	if !ok {
		return 0, fmt.Errorf("unexpected channel %q", channel)
	}
	return strconv.ParseInt(raw, 10, 64)
}

// RedisNotifier публикует события в Redis, чтобы их получили все экземпляры сервиса.
type RedisNotifier struct {
	client *goredis.Client
}

func NewRedisNotifier(client *goredis.Client) (*RedisNotifier, error) {
	if client == nil {
		return nil, fmt.Errorf("redis notifier: client cannot be nil")
	}
	return &RedisNotifier{client: client}, nil
}

func (n *RedisNotifier) Notify(ctx context.Context, event domain.NotificationEvent) error {
	body, err := marshalEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis notifier: failed to marshal event: %w", err)
	}

	channel := UserChannel(event.Notification.UserID)
	if err := n.client.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("redis notifier: failed to publish to %s: %w", channel, err)
	}
	return nil
}

// forwarder принимает события, полученные из Redis. Реализуется SSENotifier.
type forwarder interface {
	Forward(ctx context.Context, userID int64, eventType string, data []byte) error
}

// Relay подписывается на каналы всех пользователей и передает события в локальные
// SSE-соединения. Блокируется до отмены ctx.
func (n *RedisNotifier) Relay(ctx context.Context, sink forwarder) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "RedisRelay"})

	pubsub := n.client.PSubscribe(ctx, userChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis relay: failed to subscribe: %w", err)
	}
	logger.Info("Subscribed to user notification channels", nil)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Relay stopped", nil)
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("redis relay: subscription channel closed")
			}
			if err := relayMessage(ctx, sink, msg.Channel, []byte(msg.Payload)); err != nil {
				logger.Warn("Failed to relay notification", port.Fields{"channel": msg.Channel, "error": err.Error()})
			}
		}
	}
}

func relayMessage(ctx context.Context, sink forwarder, channel string, payload []byte) error {
	userID, err := userIDFromChannel(channel)
	if err != nil {
		return err
	}

	var envelope EventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	data, err := json.Marshal(envelope.Notification)
	if err != nil {
		return err
	}
	return sink.Forward(ctx, userID, envelope.Type, data)
}

// RedisRelay фоновый слушатель, который пересылает события из Redis в SSE этого экземпляра.
type RedisRelay struct {
	notifier *RedisNotifier
	sink     forwarder
}

func NewRedisRelay(n *RedisNotifier, sse *SSENotifier) *RedisRelay {
	return &RedisRelay{notifier: n, sink: sse}
}

// Start блокирует до отмены ctx.
func (r *RedisRelay) Start(ctx context.Context) error {
	return r.notifier.Relay(ctx, r.sink)
}

// Close ничего не делает: подписка закрывается при отмене ctx, клиентом владеет приложение.
func (r *RedisRelay) Close() error { return nil }
