package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/customeros/mailharvest/internal/models"
)

func TestClassify_KeepsDocuments(t *testing.T) {
	// Arrange
	s := NewAttachmentClassifierService()
	attachments := []models.AttachmentDescriptor{
		{Filename: "invoice.pdf"},
		{Filename: "summary.xlsx"},
		{Filename: "data.json"},
	}

	// Act
	documents := s.Classify(attachments)

	// Assert
	assert.Len(t, documents, 3)
}

func TestClassify_DropsInlineParts(t *testing.T) {
	// Arrange
	s := NewAttachmentClassifierService()
	attachments := []models.AttachmentDescriptor{
		{Filename: "invoice.pdf", IsInline: true},
		{Filename: "invoice.pdf"},
	}

	// Act
	documents := s.Classify(attachments)

	// Assert
	assert.Len(t, documents, 1)
	assert.False(t, documents[0].IsInline)
}

func TestClassify_DropsEmptyFilenames(t *testing.T) {
	// Arrange
	s := NewAttachmentClassifierService()
	attachments := []models.AttachmentDescriptor{
		{Filename: ""},
		{Filename: "report.docx"},
	}

	// Act
	documents := s.Classify(attachments)

	// Assert
	assert.Len(t, documents, 1)
	assert.Equal(t, "report.docx", documents[0].Filename)
}

func TestClassify_DecorativeNamesAreDroppedRegardlessOfExtension(t *testing.T) {
	// Arrange
	s := NewAttachmentClassifierService()
	attachments := []models.AttachmentDescriptor{
		{Filename: "image001.pdf"},
		{Filename: "Company-Logo.pdf"},
		{Filename: "signature.docx"},
		{Filename: "email-banner.zip"},
		{Filename: "BrandImage.xlsx"},
		{Filename: "invoice.pdf"},
	}

	// Act
	documents := s.Classify(attachments)

	// Assert
	assert.Len(t, documents, 1)
	assert.Equal(t, "invoice.pdf", documents[0].Filename)
}

func TestClassify_NonDocumentExtensionsAreDropped(t *testing.T) {
	// Arrange
	s := NewAttachmentClassifierService()
	attachments := []models.AttachmentDescriptor{
		{Filename: "photo.jpg"},
		{Filename: "setup.exe"},
		{Filename: "noextension"},
		{Filename: "archive.7z"},
		{Filename: "notes.TXT"},
	}

	// Act
	documents := s.Classify(attachments)

	// Assert
	assert.Len(t, documents, 2)
	assert.Equal(t, "archive.7z", documents[0].Filename)
	assert.Equal(t, "notes.TXT", documents[1].Filename)
}

func TestClassify_PreservesInputOrder(t *testing.T) {
	// Arrange
	s := NewAttachmentClassifierService()
	attachments := []models.AttachmentDescriptor{
		{Filename: "b.pdf"},
		{Filename: "skip.png"},
		{Filename: "a.pdf"},
	}

	// Act
	documents := s.Classify(attachments)

	// Assert
	assert.Len(t, documents, 2)
	assert.Equal(t, "b.pdf", documents[0].Filename)
	assert.Equal(t, "a.pdf", documents[1].Filename)
}
