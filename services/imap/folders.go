package imap

import (
	"context"

	go_imap "github.com/emersion/go-imap"
	"github.com/opentracing/opentracing-go"

	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/tracing"
	"github.com/customeros/mailharvest/internal/utils"
)

// ListFolders enumerates the selectable folders on the server.
func (s *IMAPClient) ListFolders(ctx context.Context) ([]interfaces.FolderInfo, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IMAPClient.ListFolders")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	c, err := s.connectedClient()
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	mailboxes := make(chan *go_imap.MailboxInfo, 20)
	done := make(chan error, 1)
	go func() {
		done <- c.List("", "*", mailboxes)
	}()

	var folders []interfaces.FolderInfo
	for m := range mailboxes {
		folders = append(folders, interfaces.FolderInfo{
			Name:       m.Name,
			Selectable: !utils.IsStringInSlice(go_imap.NoSelectAttr, m.Attributes),
		})
	}

	if err := <-done; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	span.SetTag("folder_count", len(folders))
	return folders, nil
}
