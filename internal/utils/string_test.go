package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmailSubject(t *testing.T) {
	assert.Equal(t, "Monthly Report", NormalizeEmailSubject("Re: Monthly Report"))
	assert.Equal(t, "Monthly Report", NormalizeEmailSubject("Re: Fwd: Monthly Report"))
	assert.Equal(t, "Monthly Report", NormalizeEmailSubject("RE[2]: Monthly Report"))
	assert.Equal(t, "Monthly Report", NormalizeEmailSubject("  Monthly Report  "))
	assert.Equal(t, "Report: Q1", NormalizeEmailSubject("Report: Q1"))
}

func TestContainsIgnoreCase(t *testing.T) {
	assert.True(t, ContainsIgnoreCase("Monthly Report Summary", "report"))
	assert.True(t, ContainsIgnoreCase("invoice", "INVOICE"))
	assert.False(t, ContainsIgnoreCase("Newsletter", "report"))
}

func TestGetFileExtensionFromContentType(t *testing.T) {
	assert.Equal(t, "pdf", GetFileExtensionFromContentType("application/pdf"))
	assert.Equal(t, "xlsx", GetFileExtensionFromContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
	assert.Equal(t, "txt", GetFileExtensionFromContentType("text/plain; charset=utf-8"))
	assert.Equal(t, "bin", GetFileExtensionFromContentType("application/octet-stream"))
}
