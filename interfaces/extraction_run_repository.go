package interfaces

import (
	"context"

	"github.com/customeros/mailharvest/internal/models"
)

type ExtractionRunRepository interface {
	Create(ctx context.Context, run *models.ExtractionRun) error
	MarkCompleted(ctx context.Context, run *models.ExtractionRun) error
	GetLatest(ctx context.Context) (*models.ExtractionRun, error)
	List(ctx context.Context, limit int) ([]models.ExtractionRun, error)
}
