package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/customeros/mailharvest/internal/utils"
)

// ExtractionRun records one completed extraction batch.
type ExtractionRun struct {
	ID             string         `gorm:"type:varchar(50);primaryKey"`
	Folders        pq.StringArray `gorm:"type:varchar(255)[];not null"`
	LookbackDays   int            `gorm:"not null"`
	Keyword        string         `gorm:"type:varchar(255)"`
	ExtractionMode string         `gorm:"type:varchar(20);not null"`
	NamingFormat   string         `gorm:"type:varchar(20);not null"`
	SaveFolder     string         `gorm:"type:varchar(1000);not null"`
	Status         string         `gorm:"type:varchar(20);index;not null"`
	MessagesFound  int            `gorm:"default:0"`
	FilesSaved     int            `gorm:"default:0"`
	FilesSkipped   int            `gorm:"default:0"`
	StartedAt      time.Time      `gorm:"column:started_at;type:timestamp;not null"`
	CompletedAt    *time.Time     `gorm:"column:completed_at;type:timestamp"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (ExtractionRun) TableName() string {
	return "extraction_runs"
}

func (r *ExtractionRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = utils.GenerateNanoIDWithPrefix("run", 12)
	}
	return nil
}
