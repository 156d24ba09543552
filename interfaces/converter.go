package interfaces

import "context"

type ConverterService interface {
	// Convert transforms a saved file into the target format and returns the
	// new path. Best-effort: on failure the original file stays in place and
	// the error is reported, never propagated as a pipeline failure.
	Convert(ctx context.Context, path string, targetFormat string) (string, error)
}
