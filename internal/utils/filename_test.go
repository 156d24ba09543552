package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFilename(t *testing.T) {
	// Arrange
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name untouched", "invoice.pdf", "invoice.pdf"},
		{"invalid characters replaced", `in<voice>:"q1".pdf`, "in_voice___q1_.pdf"},
		{"path separators replaced", `reports/2024\q1.pdf`, "reports_2024_q1.pdf"},
		{"whitespace collapsed", "monthly   report .pdf", "monthly report .pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			result := CleanFilename(tt.input)

			// Assert
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCleanFilename_TruncatesLongNames(t *testing.T) {
	// Arrange
	longName := strings.Repeat("a", 300) + ".pdf"

	// Act
	result := CleanFilename(longName)

	// Assert
	assert.Equal(t, 200, len(result))
	assert.True(t, strings.HasSuffix(result, ".pdf"))
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "invoice", FileStem("invoice.pdf"))
	assert.Equal(t, "invoice_march", FileStem("/tmp/out/invoice_march.pdf"))
	assert.Equal(t, "noextension", FileStem("noextension"))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, ".pdf", FileExtension("invoice.PDF"))
	assert.Equal(t, ".xlsx", FileExtension("summary.xlsx"))
	assert.Equal(t, "", FileExtension("noextension"))
}
