package interfaces

import (
	"context"

	"github.com/customeros/mailharvest/dto"
)

// EventsService mirrors extraction progress onto the message bus.
type EventsService interface {
	ProgressObserver
	PublishRunCompleted(ctx context.Context, event dto.RunCompletedEvent)
	Close() error
}
