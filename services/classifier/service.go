package classifier

import (
	"strings"

	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/models"
	"github.com/customeros/mailharvest/internal/utils"
)

// decorative inline content that shows up as an attachment on almost every
// corporate email
var denylistPatterns = []string{
	"image001",
	"image002",
	"image003",
	"image004",
	"image005",
	"outlook-logo",
	"brandimage",
	"coverimage",
	"openlinkicon",
	"signature",
	"logo",
	"banner",
}

var documentExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".txt", ".csv", ".zip", ".rar", ".7z", ".xml", ".json",
}

type attachmentClassifierService struct{}

func NewAttachmentClassifierService() interfaces.AttachmentClassifierService {
	return &attachmentClassifierService{}
}

// Classify keeps only real document attachments, preserving input order.
func (s *attachmentClassifierService) Classify(attachments []models.AttachmentDescriptor) []models.AttachmentDescriptor {
	var documents []models.AttachmentDescriptor

	for _, attachment := range attachments {
		if attachment.IsInline {
			continue
		}
		if attachment.Filename == "" {
			continue
		}
		if isDecorative(attachment.Filename) {
			continue
		}
		if !utils.IsStringInSlice(utils.FileExtension(attachment.Filename), documentExtensions) {
			continue
		}
		documents = append(documents, attachment)
	}

	return documents
}

func isDecorative(filename string) bool {
	lower := strings.ToLower(filename)
	for _, pattern := range denylistPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
