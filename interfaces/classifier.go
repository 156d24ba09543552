package interfaces

import (
	"github.com/customeros/mailharvest/internal/models"
)

type AttachmentClassifierService interface {
	// Classify drops inline parts, decorative patterns and non-document
	// extensions, preserving input order.
	Classify(attachments []models.AttachmentDescriptor) []models.AttachmentDescriptor
}
