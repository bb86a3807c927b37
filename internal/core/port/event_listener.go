package port

import "context"

// EventListenerPort фоновый источник событий (очередь, планировщик).
// Start блокирует до отмены ctx.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
