package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/tracing"
)

// LocalFileStore writes extraction output to a directory on disk.
type LocalFileStore struct{}

func NewLocalFileStore() interfaces.FileStore {
	return &LocalFileStore{}
}

func (s *LocalFileStore) EnsureFolder(path string) error {
	if path == "" {
		return errors.New("folder path is empty")
	}
	return os.MkdirAll(path, 0o755)
}

func (s *LocalFileStore) Exists(dir, filename string) bool {
	_, err := os.Stat(filepath.Join(dir, filename))
	return err == nil
}

func (s *LocalFileStore) Save(ctx context.Context, dir, filename string, content []byte) (string, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "LocalFileStore.Save")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("filename", filename)

	if err := s.EnsureFolder(dir); err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to create output folder")
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrapf(err, "failed to write %s", filename)
	}

	return path, nil
}
