package naming

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/enum"
	"github.com/customeros/mailharvest/internal/models"
)

type fakeStore struct {
	existing map[string]bool
}

func (f *fakeStore) EnsureFolder(path string) error {
	return nil
}

func (f *fakeStore) Exists(dir, filename string) bool {
	return f.existing[filename]
}

func (f *fakeStore) Save(ctx context.Context, dir, filename string, content []byte) (string, error) {
	return dir + "/" + filename, nil
}

func acceptedMessage(label string, receivedAt time.Time, filenames ...string) *models.AcceptedMessage {
	msg := &models.AcceptedMessage{
		RawMessage: &models.RawMessage{
			ReceivedAt: receivedAt,
		},
		ProviderLabel: label,
	}
	for _, filename := range filenames {
		msg.Documents = append(msg.Documents, models.AttachmentDescriptor{
			Filename: filename,
			Content:  []byte(filename),
		})
	}
	return msg
}

func TestResolve_DateFormatCombinesLabelAndDate(t *testing.T) {
	// Arrange
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("ACME", time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), "invoice.pdf"),
	}

	// Act
	files, skipped := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeAll,
		Format:     enum.NamingFormatDate,
	}, &fakeStore{})

	// Assert
	assert.Equal(t, 0, skipped)
	assert.Len(t, files, 1)
	assert.Equal(t, "ACME2024-05-01.pdf", files[0].Filename)
}

func TestResolve_UnlabeledMessagesUseUnknownPrefix(t *testing.T) {
	// Arrange
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "invoice.pdf"),
	}

	// Act
	files, _ := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeAll,
		Format:     enum.NamingFormatYear,
	}, &fakeStore{})

	// Assert
	assert.Len(t, files, 1)
	assert.Equal(t, "unknown2024.pdf", files[0].Filename)
}

func TestResolve_OriginalFormatKeepsFilename(t *testing.T) {
	// Arrange
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("ACME", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "statement_q1.pdf"),
	}

	// Act
	files, _ := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeAll,
		Format:     enum.NamingFormatOriginal,
	}, &fakeStore{})

	// Assert
	assert.Len(t, files, 1)
	assert.Equal(t, "ACME_statement_q1.pdf", files[0].Filename)
}

func TestResolve_CustomFormatFallsBackToLiteral(t *testing.T) {
	// Arrange
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("ACME", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "invoice.pdf"),
	}

	// Act
	files, _ := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeAll,
		Format:     enum.NamingFormatCustom,
	}, &fakeStore{})

	// Assert
	assert.Len(t, files, 1)
	assert.Equal(t, "ACMEcustom.pdf", files[0].Filename)
}

func TestResolve_AllModeResolvesCollisions(t *testing.T) {
	// Arrange: two attachments of the same message land on the same name,
	// and a file with the base name already exists in the output directory
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("ACME", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "invoice.pdf", "receipt.pdf"),
	}
	store := &fakeStore{existing: map[string]bool{"ACME2024-05-01.pdf": true}}

	// Act
	files, skipped := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeAll,
		Format:     enum.NamingFormatDate,
	}, store)

	// Assert
	assert.Equal(t, 0, skipped)
	assert.Len(t, files, 2)
	assert.Equal(t, "ACME2024-05-01_1.pdf", files[0].Filename)
	assert.Equal(t, "ACME2024-05-01_2.pdf", files[1].Filename)
}

func TestResolve_LatestModeKeepsNewestPerKey(t *testing.T) {
	// Arrange: both filenames share the stem before the first underscore, so
	// they count as the same logical document
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("ACME", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "invoice_march.pdf"),
		acceptedMessage("ACME", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "invoice_february.pdf"),
	}

	// Act
	files, skipped := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeLatest,
		Format:     enum.NamingFormatDate,
	}, &fakeStore{})

	// Assert
	assert.Equal(t, 1, skipped)
	assert.Len(t, files, 1)
	assert.Equal(t, "ACME2024-03-10.pdf", files[0].Filename)
}

func TestResolve_LatestModeReordersOlderInput(t *testing.T) {
	// Arrange: input deliberately oldest-first
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("ACME", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "invoice_february.pdf"),
		acceptedMessage("ACME", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "invoice_march.pdf"),
	}

	// Act
	files, skipped := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeLatest,
		Format:     enum.NamingFormatOriginal,
	}, &fakeStore{})

	// Assert
	assert.Equal(t, 1, skipped)
	assert.Len(t, files, 1)
	assert.Equal(t, "ACME_invoice_march.pdf", files[0].Filename)
}

func TestResolve_LatestModeDistinctKeysAllSurvive(t *testing.T) {
	// Arrange
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("ACME", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "invoice_march.pdf"),
		acceptedMessage("ACME", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "statement_march.pdf"),
		acceptedMessage("ACME", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "invoice_march.xlsx"),
	}

	// Act
	files, skipped := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeLatest,
		Format:     enum.NamingFormatOriginal,
	}, &fakeStore{})

	// Assert: same stem but different extension is a different key
	assert.Equal(t, 0, skipped)
	assert.Len(t, files, 3)
}

func TestResolve_SanitizesOriginalFilenames(t *testing.T) {
	// Arrange
	s := NewNameResolverService()
	messages := []*models.AcceptedMessage{
		acceptedMessage("ACME", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), `in"voice<q1>.pdf`),
	}

	// Act
	files, _ := s.Resolve(context.Background(), messages, interfaces.NamingPolicy{
		SaveFolder: "/out",
		Mode:       enum.ExtractionModeAll,
		Format:     enum.NamingFormatOriginal,
	}, &fakeStore{})

	// Assert
	assert.Len(t, files, 1)
	assert.Equal(t, "ACME_in_voice_q1_.pdf", files[0].Filename)
}
