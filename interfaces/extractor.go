package interfaces

import (
	"context"

	"github.com/customeros/mailharvest/dto"
)

type ExtractorService interface {
	// Extract runs one bounded batch: retrieve, filter, classify, resolve
	// names, save, optionally convert, record the run. Item-local failures
	// are reported and skipped; only connectivity failure aborts.
	Extract(ctx context.Context, request dto.ExtractionRequest) (*dto.ExtractionResult, error)

	// SetObserver injects the progress sink used for all subsequent runs.
	SetObserver(observer ProgressObserver)
}
