package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/tracing"
	"github.com/customeros/mailharvest/services/storage/aws_client"
)

type backupService struct {
	cfg      *config.BackupConfig
	s3Client aws_client.S3Client
}

func NewBackupService(cfg *config.BackupConfig) interfaces.BackupService {
	svc := &backupService{cfg: cfg}
	if cfg != nil && cfg.Enabled && cfg.AccountID != "" {
		svc.s3Client = aws_client.NewR2Client(cfg.AccountID, cfg.AccessKeyID, cfg.AccessKeySecret)
	}
	return svc
}

// Archive zips everything a run saved into Backups/ under the output folder
// and pushes the archive to object storage when configured.
func (s *backupService) Archive(ctx context.Context, runID string, savedFiles map[string]string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "backupService.Archive")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagRun(span, runID)

	if len(savedFiles) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	var baseDir string
	for filename, path := range savedFiles {
		if baseDir == "" {
			baseDir = filepath.Dir(path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			tracing.TraceErr(span, err)
			continue
		}

		entry, err := zipWriter.Create(filename)
		if err != nil {
			zipWriter.Close()
			return "", errors.Wrap(err, "failed to create archive entry")
		}
		if _, err := entry.Write(content); err != nil {
			zipWriter.Close()
			return "", errors.Wrap(err, "failed to write archive entry")
		}
	}

	if err := zipWriter.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize archive")
	}

	backupDir := filepath.Join(baseDir, "Backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create backup folder")
	}

	archiveName := fmt.Sprintf("extraction_backup_%s_%s.zip", time.Now().Format("20060102_150405"), runID)
	archivePath := filepath.Join(backupDir, archiveName)
	if err := os.WriteFile(archivePath, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write archive")
	}

	if s.s3Client != nil {
		err := s.s3Client.Upload(ctx, s3manager.UploadInput{
			Bucket:      aws.String(s.cfg.Bucket),
			Key:         aws.String(runID + "/" + archiveName),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String("application/zip"),
		})
		if err != nil {
			// remote copy is best effort, the local archive stays
			tracing.TraceErr(span, err)
		}
	}

	return archivePath, nil
}
