package models

import (
	"time"
)

// AttachmentDescriptor is one MIME part of a retrieved message. Content is
// fetched once together with the message so the pipeline never has to go
// back to the mail server to save a file.
type AttachmentDescriptor struct {
	Filename    string
	ContentType string
	ContentID   string
	Size        int
	IsInline    bool
	Content     []byte
}

// RawMessage is an immutable snapshot of one message as retrieved from the
// mail client. It carries everything the extraction pipeline needs.
type RawMessage struct {
	Subject      string
	CleanSubject string
	FromAddress  string
	FromName     string
	ReceivedAt   time.Time
	BodyText     string
	Folder       string
	Attachments  []AttachmentDescriptor
}

// HasUsableTimestamp reports whether the message carries a received time the
// date filter can work with.
func (m *RawMessage) HasUsableTimestamp() bool {
	return !m.ReceivedAt.IsZero()
}

// AcceptedMessage is a RawMessage that passed the date, keyword and provider
// filters, annotated with the resolved provider label and the attachment
// filenames that survived classification.
type AcceptedMessage struct {
	*RawMessage

	ProviderLabel string
	Documents     []AttachmentDescriptor
}
