package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/dto"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/enum"
	harvesterrors "github.com/customeros/mailharvest/internal/errors"
	"github.com/customeros/mailharvest/internal/logger"
	"github.com/customeros/mailharvest/internal/models"
	"github.com/customeros/mailharvest/services/classifier"
	"github.com/customeros/mailharvest/services/filter"
	"github.com/customeros/mailharvest/services/naming"
	"github.com/customeros/mailharvest/services/providers"
	"github.com/customeros/mailharvest/services/storage"
)

type fakeMailClient struct {
	messages     []*models.RawMessage
	folderErrors []interfaces.FolderError
	connectErr   error
}

func (f *fakeMailClient) Connect(ctx context.Context) error {
	return f.connectErr
}

func (f *fakeMailClient) Close() error {
	return nil
}

func (f *fakeMailClient) ListFolders(ctx context.Context) ([]interfaces.FolderInfo, error) {
	return []interfaces.FolderInfo{{Name: "INBOX", Selectable: true}}, nil
}

func (f *fakeMailClient) ListMessages(ctx context.Context, folders []string, since time.Time) ([]*models.RawMessage, []interfaces.FolderError, error) {
	return f.messages, f.folderErrors, nil
}

func (f *fakeMailClient) Status() interfaces.MailClientStatus {
	return interfaces.MailClientStatus{Connected: true}
}

type fakeRunRepository struct {
	created   *models.ExtractionRun
	completed *models.ExtractionRun
}

func (f *fakeRunRepository) Create(ctx context.Context, run *models.ExtractionRun) error {
	run.ID = "run-test"
	f.created = run
	return nil
}

func (f *fakeRunRepository) MarkCompleted(ctx context.Context, run *models.ExtractionRun) error {
	f.completed = run
	return nil
}

func (f *fakeRunRepository) GetLatest(ctx context.Context) (*models.ExtractionRun, error) {
	return f.completed, nil
}

func (f *fakeRunRepository) List(ctx context.Context, limit int) ([]models.ExtractionRun, error) {
	return nil, nil
}

type fakeConverter struct{}

func (f *fakeConverter) Convert(ctx context.Context, path string, targetFormat string) (string, error) {
	return path, nil
}

type fakeBackup struct{}

func (f *fakeBackup) Archive(ctx context.Context, runID string, savedFiles map[string]string) (string, error) {
	return "", nil
}

type recordingObserver struct {
	events []dto.ProgressEvent
}

func (o *recordingObserver) Notify(ctx context.Context, event dto.ProgressEvent) {
	o.events = append(o.events, event)
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func newTestService(mailClient interfaces.MailClient, runRepo interfaces.ExtractionRunRepository) interfaces.ExtractorService {
	cfg := &config.Config{
		AppConfig:       &config.AppConfig{},
		ConverterConfig: &config.ConverterConfig{},
		BackupConfig:    &config.BackupConfig{},
	}
	providerMatcher := providers.NewProviderMatcherService()
	return NewExtractorService(
		cfg,
		getLogger(),
		mailClient,
		providerMatcher,
		filter.NewMessageFilterService(providerMatcher),
		classifier.NewAttachmentClassifierService(),
		naming.NewNameResolverService(),
		storage.NewLocalFileStore(),
		&fakeConverter{},
		&fakeBackup{},
		nil,
		runRepo,
	)
}

func testMessage(receivedAt time.Time, attachments ...models.AttachmentDescriptor) *models.RawMessage {
	return &models.RawMessage{
		Subject:     "Monthly invoice",
		FromAddress: "billing@acme.com",
		ReceivedAt:  receivedAt,
		Attachments: attachments,
	}
}

func TestExtract_SavesDocumentsToDisk(t *testing.T) {
	// Arrange
	saveFolder := t.TempDir()
	mailClient := &fakeMailClient{
		messages: []*models.RawMessage{
			testMessage(time.Now().Add(-time.Hour),
				models.AttachmentDescriptor{Filename: "invoice.pdf", Content: []byte("pdf content")},
				models.AttachmentDescriptor{Filename: "logo.png", Content: []byte("decoration")},
			),
		},
	}
	runRepo := &fakeRunRepository{}
	s := newTestService(mailClient, runRepo)

	// Act
	result, err := s.Extract(context.Background(), dto.ExtractionRequest{
		Folders:        []string{"INBOX"},
		LookbackDays:   7,
		ProvidersText:  "@acme.com = ACME",
		SaveFolder:     saveFolder,
		NamingFormat:   enum.NamingFormatOriginal,
		ExtractionMode: enum.ExtractionModeAll,
	})

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "run-test", result.RunID)
	assert.Equal(t, 1, result.MessagesFound)
	assert.Len(t, result.SavedFiles, 1)

	content, readErr := os.ReadFile(filepath.Join(saveFolder, "ACME_invoice.pdf"))
	assert.NoError(t, readErr)
	assert.Equal(t, []byte("pdf content"), content)

	assert.NotNil(t, runRepo.completed)
	assert.Equal(t, enum.RunStatusCompleted.String(), runRepo.completed.Status)
	assert.Equal(t, 1, runRepo.completed.FilesSaved)
}

func TestExtract_ValidatesRequest(t *testing.T) {
	// Arrange
	s := newTestService(&fakeMailClient{}, &fakeRunRepository{})

	// Act
	_, errNoFolder := s.Extract(context.Background(), dto.ExtractionRequest{
		Folders: []string{"INBOX"},
	})
	_, errNoFolders := s.Extract(context.Background(), dto.ExtractionRequest{
		SaveFolder: t.TempDir(),
	})

	// Assert
	assert.ErrorIs(t, errNoFolder, harvesterrors.ErrSaveFolderMissing)
	assert.ErrorIs(t, errNoFolders, harvesterrors.ErrNoFoldersSelected)
}

func TestExtract_ConnectFailureAbortsRun(t *testing.T) {
	// Arrange
	mailClient := &fakeMailClient{
		connectErr: errors.New("dial tcp: connection refused"),
	}
	runRepo := &fakeRunRepository{}
	s := newTestService(mailClient, runRepo)

	// Act
	_, err := s.Extract(context.Background(), dto.ExtractionRequest{
		Folders:    []string{"INBOX"},
		SaveFolder: t.TempDir(),
	})

	// Assert
	assert.ErrorIs(t, err, harvesterrors.ErrMailClientUnavailable)
	assert.NotNil(t, runRepo.completed)
	assert.Equal(t, enum.RunStatusFailed.String(), runRepo.completed.Status)
}

func TestExtract_FolderErrorsProduceWarningsAndPartialStatus(t *testing.T) {
	// Arrange
	mailClient := &fakeMailClient{
		messages: []*models.RawMessage{
			testMessage(time.Now().Add(-time.Hour),
				models.AttachmentDescriptor{Filename: "invoice.pdf", Content: []byte("pdf content")},
			),
		},
		folderErrors: []interfaces.FolderError{
			{Folder: "Archive", Err: harvesterrors.ErrFolderNotFound},
		},
	}
	runRepo := &fakeRunRepository{}
	s := newTestService(mailClient, runRepo)
	observer := &recordingObserver{}
	s.SetObserver(observer)

	// Act
	result, err := s.Extract(context.Background(), dto.ExtractionRequest{
		Folders:        []string{"INBOX", "Archive"},
		LookbackDays:   7,
		SaveFolder:     t.TempDir(),
		NamingFormat:   enum.NamingFormatOriginal,
		ExtractionMode: enum.ExtractionModeAll,
	})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result.SavedFiles, 1)
	assert.Equal(t, enum.RunStatusPartial.String(), runRepo.completed.Status)

	warned := false
	for _, event := range observer.events {
		if event.Level == enum.EventLevelWarning {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestExtract_CancellationStopsSaving(t *testing.T) {
	// Arrange
	mailClient := &fakeMailClient{
		messages: []*models.RawMessage{
			testMessage(time.Now().Add(-time.Hour),
				models.AttachmentDescriptor{Filename: "invoice.pdf", Content: []byte("pdf content")},
			),
		},
	}
	runRepo := &fakeRunRepository{}
	s := newTestService(mailClient, runRepo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := s.Extract(ctx, dto.ExtractionRequest{
		Folders:        []string{"INBOX"},
		LookbackDays:   7,
		SaveFolder:     t.TempDir(),
		NamingFormat:   enum.NamingFormatOriginal,
		ExtractionMode: enum.ExtractionModeAll,
	})

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, enum.RunStatusFailed.String(), runRepo.completed.Status)
}

func TestExtract_InvalidProviderLinesAreReportedNotFatal(t *testing.T) {
	// Arrange
	mailClient := &fakeMailClient{
		messages: []*models.RawMessage{
			testMessage(time.Now().Add(-time.Hour),
				models.AttachmentDescriptor{Filename: "invoice.pdf", Content: []byte("pdf content")},
			),
		},
	}
	runRepo := &fakeRunRepository{}
	s := newTestService(mailClient, runRepo)
	observer := &recordingObserver{}
	s.SetObserver(observer)

	// Act
	result, err := s.Extract(context.Background(), dto.ExtractionRequest{
		Folders:        []string{"INBOX"},
		LookbackDays:   7,
		ProvidersText:  "not a rule line\n@acme.com = ACME",
		SaveFolder:     t.TempDir(),
		NamingFormat:   enum.NamingFormatOriginal,
		ExtractionMode: enum.ExtractionModeAll,
	})

	// Assert
	assert.NoError(t, err)
	assert.Len(t, result.SavedFiles, 1)
	assert.Contains(t, result.SavedFiles, "ACME_invoice.pdf")
}
