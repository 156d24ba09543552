package errors

import "github.com/pkg/errors"

var (
	// connectivity errors, fatal for the whole run
	ErrMailClientUnavailable = errors.New("mail client unavailable")
	ErrConnectionTimeout     = errors.New("connection timeout")

	// per-item errors, reported and skipped
	ErrFolderNotFound    = errors.New("folder not found")
	ErrMessageProcessing = errors.New("message processing failed")
	ErrAttachmentSave    = errors.New("attachment save failed")
	ErrConversionFailed  = errors.New("conversion failed")

	// request validation
	ErrSaveFolderMissing = errors.New("save folder is missing")
	ErrNoFoldersSelected = errors.New("no folders selected")
)
