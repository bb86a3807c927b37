package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"saved-search-service/internal/constants"
	"saved-search-service/internal/contextkeys"
	"saved-search-service/internal/core/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	keys []string
	msgs []amqp.Publishing
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	p.keys = append(p.keys, routingKey)
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestRabbitMQNotifier_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	n, err := NewRabbitMQNotifier(pub)
	require.NoError(t, err)

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	require.NoError(t, n.Notify(ctx, createdEvent(4)))

	read := createdEvent(4)
	read.Type = domain.EventNotificationRead
	require.NoError(t, n.Notify(context.Background(), read))

	require.Len(t, pub.msgs, 2)
	assert.Equal(t, []string{constants.RoutingKeyNotificationCreated, constants.RoutingKeyNotificationRead}, pub.keys)

	first := pub.msgs[0]
	assert.Equal(t, "application/json", first.ContentType)
	assert.Equal(t, amqp.Persistent, first.DeliveryMode)
	assert.NotEmpty(t, first.MessageId)
	assert.Equal(t, "notification_created", first.Headers[constants.HeaderEventType])
	assert.Equal(t, "trace-1", first.Headers[constants.HeaderTraceID])
	assert.NotContains(t, pub.msgs[1].Headers, constants.HeaderTraceID)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(first.Body, &envelope))
	assert.Equal(t, "notification_created", envelope.Type)
	assert.Equal(t, int64(4), envelope.Notification.UserID)
	assert.Equal(t, "SavedSearch", envelope.Notification.Kind)
}

func TestRabbitMQNotifier_PublishError(t *testing.T) {
	n, err := NewRabbitMQNotifier(&fakePublisher{err: errors.New("channel closed")})
	require.NoError(t, err)

	assert.ErrorContains(t, n.Notify(context.Background(), createdEvent(4)), "channel closed")
}

func TestNewRabbitMQNotifier_NilProducer(t *testing.T) {
	_, err := NewRabbitMQNotifier(nil)
	assert.Error(t, err)
}
