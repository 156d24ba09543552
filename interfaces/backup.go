package interfaces

import "context"

type BackupService interface {
	// Archive zips the files saved by a run and returns the archive path.
	// When remote upload is configured the archive is also pushed to object
	// storage under the run ID.
	Archive(ctx context.Context, runID string, savedFiles map[string]string) (string, error)
}
