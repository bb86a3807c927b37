package rabbitmq_adapter

import (
	"context"
	"errors"
	"testing"

	"saved-search-service/internal/constants"
	"saved-search-service/internal/contextkeys"
	"saved-search-service/pkg/rabbitmq/rabbitmq_consumer"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifyUseCase struct {
	postIDs  []int64
	traceIDs []string
	err      error
}

func (s *stubNotifyUseCase) Execute(ctx context.Context, postID int64) error {
	s.postIDs = append(s.postIDs, postID)
	s.traceIDs = append(s.traceIDs, contextkeys.TraceIDFromContext(ctx))
	return s.err
}

func newTestAdapter(uc *stubNotifyUseCase) *PostActivatedConsumerAdapter {
	return &PostActivatedConsumerAdapter{useCase: uc, logger: contextkeys.NoopLogger{}}
}

func delivery(body string, headers amqp.Table) amqp.Delivery {
	return amqp.Delivery{Body: []byte(body), Headers: headers}
}

func TestMessageHandler_ValidEvent(t *testing.T) {
	uc := &stubNotifyUseCase{}
	a := newTestAdapter(uc)

	err := a.messageHandler(context.Background(), delivery(`{"post_id": 42, "activated_at": "2026-03-10T09:00:00Z"}`, amqp.Table{
		constants.HeaderEventType:    constants.EventTypePostActivated,
		constants.HeaderEventVersion: constants.EventVersionPostActivated,
		constants.HeaderTraceID:      "trace-42",
	}))

	require.NoError(t, err)
	assert.Equal(t, []int64{42}, uc.postIDs)
	assert.Equal(t, []string{"trace-42"}, uc.traceIDs)
}

func TestMessageHandler_MissingHeadersUseDefaults(t *testing.T) {
	uc := &stubNotifyUseCase{}
	a := newTestAdapter(uc)

	require.NoError(t, a.messageHandler(context.Background(), delivery(`{"post_id": 7}`, nil)))
	require.Len(t, uc.traceIDs, 1)
	assert.NotEmpty(t, uc.traceIDs[0])
}

func TestMessageHandler_InvalidMessagesArePermanent(t *testing.T) {
	cases := map[string]amqp.Delivery{
		"not json":        delivery(`{`, nil),
		"missing post id": delivery(`{"activated_at": "2026-03-10T09:00:00Z"}`, nil),
		"zero post id":    delivery(`{"post_id": 0}`, nil),
		"wrong type":      delivery(`{"post_id": 1}`, amqp.Table{constants.HeaderEventType: "PostDeletedEvent"}),
		"unknown version": delivery(`{"post_id": 1}`, amqp.Table{constants.HeaderEventVersion: "9.0.0"}),
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			uc := &stubNotifyUseCase{}
			err := newTestAdapter(uc).messageHandler(context.Background(), d)

			require.Error(t, err)
			assert.True(t, rabbitmq_consumer.IsPermanent(err))
			assert.Empty(t, uc.postIDs)
		})
	}
}

func TestMessageHandler_UseCaseFailureIsRetried(t *testing.T) {
	uc := &stubNotifyUseCase{err: errors.New("db down")}
	err := newTestAdapter(uc).messageHandler(context.Background(), delivery(`{"post_id": 3}`, nil))

	require.Error(t, err)
	assert.False(t, rabbitmq_consumer.IsPermanent(err))
}
