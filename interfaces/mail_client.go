package interfaces

import (
	"context"
	"time"

	"github.com/customeros/mailharvest/internal/models"
)

type MailClient interface {
	// Connect establishes the connection and logs in. A failure here is
	// fatal for the run.
	Connect(ctx context.Context) error
	Close() error

	// ListFolders enumerates the selectable folders on the server.
	ListFolders(ctx context.Context) ([]FolderInfo, error)

	// ListMessages retrieves message snapshots, attachment content included,
	// from the given folders. A missing folder is reported through the
	// returned FolderErrors and the folder is skipped.
	ListMessages(ctx context.Context, folders []string, since time.Time) ([]*models.RawMessage, []FolderError, error)

	Status() MailClientStatus
}

type FolderInfo struct {
	Name       string
	Selectable bool
}

// FolderError is a per-folder retrieval failure that did not abort the run.
type FolderError struct {
	Folder string
	Err    error
}

type MailClientStatus struct {
	Connected   bool
	LastError   string
	LastChecked time.Time
}
