package notifier

import (
	"context"
	"errors"
	"testing"

	"saved-search-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

type recordingSink struct {
	events []domain.NotificationEvent
	err    error
}

func (s *recordingSink) Notify(_ context.Context, event domain.NotificationEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func TestMultiNotifier_FansOutAndJoinsErrors(t *testing.T) {
	failing := &recordingSink{err: errors.New("broker down")}
	ok := &recordingSink{}

	m := NewMultiNotifier(failing, nil, ok)
	err := m.Notify(context.Background(), createdEvent(3))

	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1)
}

func TestMultiNotifier_Empty(t *testing.T) {
	assert.NoError(t, NewMultiNotifier().Notify(context.Background(), createdEvent(3)))
}
