package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// CleanFilename replaces characters that are not safe in filenames and
// collapses repeated whitespace. Names longer than 200 characters are
// truncated ahead of the extension.
func CleanFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "_")
	filename = strings.Join(strings.Fields(filename), " ")

	if len(filename) > 200 {
		ext := filepath.Ext(filename)
		name := strings.TrimSuffix(filename, ext)
		if keep := 200 - len(ext); keep > 0 && len(name) > keep {
			name = name[:keep]
		}
		filename = name + ext
	}

	return filename
}

// FileStem returns the filename without directory or extension.
func FileStem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FileExtension returns the lower-cased extension including the leading dot.
func FileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
