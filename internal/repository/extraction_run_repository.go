package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/models"
	"github.com/customeros/mailharvest/internal/tracing"
)

type extractionRunRepository struct {
	db *gorm.DB
}

func NewExtractionRunRepository(db *gorm.DB) interfaces.ExtractionRunRepository {
	return &extractionRunRepository{db: db}
}

func (r *extractionRunRepository) Create(ctx context.Context, run *models.ExtractionRun) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "extractionRunRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).Create(run)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to create extraction run: %w", result.Error)
	}

	return nil
}

// MarkCompleted stamps the run and persists the final counters.
func (r *extractionRunRepository) MarkCompleted(ctx context.Context, run *models.ExtractionRun) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "extractionRunRepository.MarkCompleted")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagRun(span, run.ID)

	now := time.Now()
	run.CompletedAt = &now

	result := r.db.WithContext(ctx).
		Model(&models.ExtractionRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"status":         run.Status,
			"messages_found": run.MessagesFound,
			"files_saved":    run.FilesSaved,
			"files_skipped":  run.FilesSkipped,
			"completed_at":   run.CompletedAt,
			"updated_at":     now,
		})

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return fmt.Errorf("failed to complete extraction run: %w", result.Error)
	}

	return nil
}

// GetLatest returns the most recent successfully completed run, or nil when
// none has been recorded yet.
func (r *extractionRunRepository) GetLatest(ctx context.Context) (*models.ExtractionRun, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "extractionRunRepository.GetLatest")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var run models.ExtractionRun
	result := r.db.WithContext(ctx).
		Where("completed_at IS NOT NULL").
		Order("completed_at DESC").
		First(&run)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to get latest extraction run: %w", result.Error)
	}

	return &run, nil
}

func (r *extractionRunRepository) List(ctx context.Context, limit int) ([]models.ExtractionRun, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "extractionRunRepository.List")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	if limit <= 0 {
		limit = 50
	}

	var runs []models.ExtractionRun
	result := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs)

	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return nil, fmt.Errorf("failed to list extraction runs: %w", result.Error)
	}

	return runs, nil
}
