package imap

import (
	"bytes"
	"context"
	"io"
	"log"
	"time"

	"github.com/customeros/mailsherpa/mailvalidate"
	go_imap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jhillyerd/enmime"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/customeros/mailharvest/interfaces"
	harvesterrors "github.com/customeros/mailharvest/internal/errors"
	"github.com/customeros/mailharvest/internal/models"
	"github.com/customeros/mailharvest/internal/tracing"
	"github.com/customeros/mailharvest/internal/utils"
)

// ListMessages fetches message snapshots from the given folders. Every
// message is retrieved once, attachment content included, so downstream
// stages never have to come back to the server. A folder that cannot be
// selected is reported and skipped.
func (s *IMAPClient) ListMessages(ctx context.Context, folders []string, since time.Time) ([]*models.RawMessage, []interfaces.FolderError, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPClient.ListMessages")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("folder_count", len(folders))
	span.SetTag("since", since.Format("2006-01-02"))

	c, err := s.connectedClient()
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, nil, err
	}

	var messages []*models.RawMessage
	var folderErrors []interfaces.FolderError

	for _, folderName := range folders {
		select {
		case <-ctx.Done():
			return messages, folderErrors, ctx.Err()
		default:
		}

		folderMessages, err := s.fetchFolder(ctx, c, folderName, since)
		if err != nil {
			tracing.TraceErr(span, err)
			folderErrors = append(folderErrors, interfaces.FolderError{Folder: folderName, Err: err})
			continue
		}
		messages = append(messages, folderMessages...)
	}

	span.SetTag("message_count", len(messages))
	return messages, folderErrors, nil
}

func (s *IMAPClient) fetchFolder(ctx context.Context, c *client.Client, folderName string, since time.Time) ([]*models.RawMessage, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "IMAPClient.fetchFolder")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("folder", folderName)

	c.Timeout = connectTimeout
	mbox, err := c.Select(folderName, true) // read-only
	c.Timeout = 0
	if err != nil {
		return nil, errors.Wrapf(harvesterrors.ErrFolderNotFound, "failed to select %q: %v", folderName, err)
	}

	log.Printf("[imap][%s] Selected folder - Messages: %d", folderName, mbox.Messages)

	criteria := go_imap.NewSearchCriteria()
	criteria.Since = since
	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, errors.Wrapf(err, "search failed in %q", folderName)
	}
	if len(seqNums) == 0 {
		return nil, nil
	}

	seqSet := new(go_imap.SeqSet)
	seqSet.AddNum(seqNums...)

	section := &go_imap.BodySectionName{Peek: true}
	items := []go_imap.FetchItem{
		go_imap.FetchEnvelope,
		go_imap.FetchInternalDate,
		section.FetchItem(),
	}

	fetched := make(chan *go_imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, items, fetched)
	}()

	var messages []*models.RawMessage
	for msg := range fetched {
		raw, err := s.buildSnapshot(msg, folderName, section)
		if err != nil {
			// one unparsable message never stops the folder
			log.Printf("[imap][%s] Error processing message: %v", folderName, err)
			continue
		}
		messages = append(messages, raw)
	}

	if err := <-done; err != nil {
		return messages, errors.Wrapf(err, "fetch failed in %q", folderName)
	}

	log.Printf("[imap][%s] Retrieved %d messages", folderName, len(messages))
	return messages, nil
}

// buildSnapshot converts one fetched IMAP message into an immutable
// RawMessage, parsing the MIME structure with enmime.
func (s *IMAPClient) buildSnapshot(msg *go_imap.Message, folderName string, section *go_imap.BodySectionName) (*models.RawMessage, error) {
	raw := &models.RawMessage{
		Folder:     folderName,
		ReceivedAt: msg.InternalDate,
	}

	if envelope := msg.Envelope; envelope != nil {
		raw.Subject = envelope.Subject
		raw.CleanSubject = utils.NormalizeEmailSubject(envelope.Subject)
		if raw.ReceivedAt.IsZero() && !envelope.Date.IsZero() {
			raw.ReceivedAt = envelope.Date
		}

		if len(envelope.From) > 0 {
			sender := envelope.From[0]
			raw.FromName = sender.PersonalName
			raw.FromAddress = sender.Address()
			syntaxValidation := mailvalidate.ValidateEmailSyntax(sender.Address())
			if syntaxValidation.IsValid {
				raw.FromAddress = syntaxValidation.CleanEmail
			}
		}
	}

	literal := msg.GetBody(section)
	if literal == nil {
		return raw, nil
	}

	data, err := io.ReadAll(literal)
	if err != nil {
		return nil, errors.Wrapf(harvesterrors.ErrMessageProcessing, "failed to read message body: %v", err)
	}

	envelope, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(harvesterrors.ErrMessageProcessing, "failed to parse message: %v", err)
	}

	raw.BodyText = envelope.Text

	for _, attachment := range envelope.Attachments {
		raw.Attachments = append(raw.Attachments, models.AttachmentDescriptor{
			Filename:    attachmentFilename(attachment),
			ContentType: attachment.ContentType,
			ContentID:   attachment.ContentID,
			Size:        len(attachment.Content),
			IsInline:    false,
			Content:     attachment.Content,
		})
	}

	for _, inline := range envelope.Inlines {
		raw.Attachments = append(raw.Attachments, models.AttachmentDescriptor{
			Filename:    inline.FileName,
			ContentType: inline.ContentType,
			ContentID:   inline.ContentID,
			Size:        len(inline.Content),
			IsInline:    true,
			Content:     inline.Content,
		})
	}

	return raw, nil
}

func attachmentFilename(part *enmime.Part) string {
	if part.FileName != "" {
		return part.FileName
	}
	return "attachment." + utils.GetFileExtensionFromContentType(part.ContentType)
}
