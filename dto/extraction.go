package dto

import (
	"time"

	"github.com/customeros/mailharvest/internal/enum"
)

// ExtractionRequest carries every knob for one extraction batch. It replaces
// the ambient key-value configuration of earlier revisions; callers build it
// explicitly and hand it to the extractor.
type ExtractionRequest struct {
	Folders           []string            `json:"folders"`
	LookbackDays      int                 `json:"lookbackDays"`
	Keyword           string              `json:"keyword"`
	ProvidersText     string              `json:"providersText"`
	SaveFolder        string              `json:"saveFolder"`
	NamingFormat      enum.NamingFormat   `json:"namingFormat"`
	CustomSuffix      string              `json:"customSuffix"`
	ExtractionMode    enum.ExtractionMode `json:"extractionMode"`
	ConversionEnabled bool                `json:"conversionEnabled"`
	ConvertFormat     string              `json:"convertFormat"`
}

// ExtractionResult is what one run produced. SavedFiles maps final filename
// to the full path on disk; it reflects only the attachments that succeeded.
type ExtractionResult struct {
	RunID         string            `json:"runId"`
	SavedFiles    map[string]string `json:"savedFiles"`
	MessagesFound int               `json:"messagesFound"`
	FilesSkipped  int               `json:"filesSkipped"`
}

// ProgressEvent is a structured observer notification for UI display.
type ProgressEvent struct {
	Level   enum.EventLevel `json:"level"`
	Message string          `json:"message"`
}

// RunCompletedEvent is published once per extraction run.
type RunCompletedEvent struct {
	RunID         string    `json:"runId"`
	Status        string    `json:"status"`
	MessagesFound int       `json:"messagesFound"`
	FilesSaved    int       `json:"filesSaved"`
	FilesSkipped  int       `json:"filesSkipped"`
	CompletedAt   time.Time `json:"completedAt"`
}
