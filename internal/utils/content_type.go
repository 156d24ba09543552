package utils

import "strings"

// GetFileExtensionFromContentType maps a MIME content type to a bare file
// extension, used to synthesize a filename when an attachment has none.
func GetFileExtensionFromContentType(contentType string) string {
	contentType = strings.ToLower(contentType)

	switch {
	case strings.Contains(contentType, "pdf"):
		return "pdf"
	case strings.Contains(contentType, "excel") || strings.Contains(contentType, "xls") || strings.Contains(contentType, "spreadsheet"):
		return "xlsx"
	case strings.Contains(contentType, "powerpoint") || strings.Contains(contentType, "ppt") || strings.Contains(contentType, "presentation"):
		return "pptx"
	// "officedocument" appears in every OOXML type, so word detection comes
	// after the spreadsheet and presentation checks
	case strings.Contains(contentType, "word") || strings.Contains(contentType, "doc"):
		return "docx"
	case strings.Contains(contentType, "csv"):
		return "csv"
	case strings.Contains(contentType, "text/plain"):
		return "txt"
	case strings.Contains(contentType, "json"):
		return "json"
	case strings.Contains(contentType, "xml"):
		return "xml"
	case strings.Contains(contentType, "zip") || strings.Contains(contentType, "compressed"):
		return "zip"
	case strings.Contains(contentType, "rar"):
		return "rar"
	case strings.Contains(contentType, "7z"):
		return "7z"
	case strings.Contains(contentType, "jpeg") || strings.Contains(contentType, "jpg"):
		return "jpg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	default:
		return "bin"
	}
}
