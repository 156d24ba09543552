package interfaces

import "context"

// FileStore is the output-directory abstraction the naming resolver probes
// for collisions and the extractor writes through.
type FileStore interface {
	EnsureFolder(path string) error
	Exists(dir, filename string) bool
	Save(ctx context.Context, dir, filename string, content []byte) (string, error)
}
