package repository

import (
	"gorm.io/gorm"

	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/models"
)

type Repositories struct {
	ExtractionRunRepository interfaces.ExtractionRunRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		ExtractionRunRepository: NewExtractionRunRepository(db),
	}
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ExtractionRun{},
	)
}
