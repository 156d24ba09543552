package interfaces

import (
	"context"

	"github.com/customeros/mailharvest/dto"
)

// ProgressObserver receives structured progress events during a run so the
// core stays UI-agnostic and testable headlessly.
type ProgressObserver interface {
	Notify(ctx context.Context, event dto.ProgressEvent)
}
