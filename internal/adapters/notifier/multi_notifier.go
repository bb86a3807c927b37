package notifier

import (
	"context"
	"errors"

	"saved-search-service/internal/core/domain"
	"saved-search-service/internal/core/port"
)

// MultiNotifier отправляет событие во все каналы. Отказ одного канала не мешает остальным.
type MultiNotifier struct {
	sinks []port.NotifierPort
}

// NewMultiNotifier пропускает nil-каналы.
func NewMultiNotifier(sinks ...port.NotifierPort) *MultiNotifier {
	m := &MultiNotifier{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiNotifier) Notify(ctx context.Context, event domain.NotificationEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
