package extractor

import (
	"fmt"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"golang.org/x/net/context"

	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/dto"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/enum"
	harvesterrors "github.com/customeros/mailharvest/internal/errors"
	"github.com/customeros/mailharvest/internal/logger"
	"github.com/customeros/mailharvest/internal/models"
	"github.com/customeros/mailharvest/internal/tracing"
)

type extractorService struct {
	cfg        *config.Config
	log        logger.Logger
	mailClient interfaces.MailClient
	providers  interfaces.ProviderMatcherService
	filter     interfaces.MessageFilterService
	classifier interfaces.AttachmentClassifierService
	naming     interfaces.NameResolverService
	store      interfaces.FileStore
	converter  interfaces.ConverterService
	backup     interfaces.BackupService
	events     interfaces.EventsService
	runRepo    interfaces.ExtractionRunRepository

	observer      interfaces.ProgressObserver
	observerMutex sync.RWMutex

	// one extraction at a time against the mailbox
	runMutex sync.Mutex
}

func NewExtractorService(
	cfg *config.Config,
	log logger.Logger,
	mailClient interfaces.MailClient,
	providers interfaces.ProviderMatcherService,
	filter interfaces.MessageFilterService,
	classifier interfaces.AttachmentClassifierService,
	naming interfaces.NameResolverService,
	store interfaces.FileStore,
	converter interfaces.ConverterService,
	backup interfaces.BackupService,
	events interfaces.EventsService,
	runRepo interfaces.ExtractionRunRepository,
) interfaces.ExtractorService {
	return &extractorService{
		cfg:        cfg,
		log:        log,
		mailClient: mailClient,
		providers:  providers,
		filter:     filter,
		classifier: classifier,
		naming:     naming,
		store:      store,
		converter:  converter,
		backup:     backup,
		events:     events,
		runRepo:    runRepo,
	}
}

func (s *extractorService) SetObserver(observer interfaces.ProgressObserver) {
	s.observerMutex.Lock()
	defer s.observerMutex.Unlock()
	s.observer = observer
}

func (s *extractorService) Extract(ctx context.Context, request dto.ExtractionRequest) (*dto.ExtractionResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ExtractorService.Extract")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if err := validateRequest(request); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	if err := s.store.EnsureFolder(request.SaveFolder); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to prepare save folder")
	}

	run := &models.ExtractionRun{
		Folders:        request.Folders,
		LookbackDays:   request.LookbackDays,
		Keyword:        request.Keyword,
		ExtractionMode: request.ExtractionMode.String(),
		NamingFormat:   request.NamingFormat.String(),
		SaveFolder:     request.SaveFolder,
		Status:         enum.RunStatusRunning.String(),
		StartedAt:      time.Now().UTC(),
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	tracing.TagRun(span, run.ID)

	s.notify(ctx, enum.EventLevelInfo, fmt.Sprintf("Starting extraction run %s", run.ID))

	result, err := s.runPipeline(ctx, run, request)
	if err != nil {
		s.failRun(ctx, run, err)
		return nil, err
	}

	return result, nil
}

func (s *extractorService) runPipeline(ctx context.Context, run *models.ExtractionRun, request dto.ExtractionRequest) (*dto.ExtractionResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ExtractorService.runPipeline")
	defer span.Finish()
	tracing.TagRun(span, run.ID)

	if err := s.mailClient.Connect(ctx); err != nil {
		tracing.TraceErr(span, err)
		s.notify(ctx, enum.EventLevelError, fmt.Sprintf("Mail server connection failed: %v", err))
		return nil, errors.Wrap(harvesterrors.ErrMailClientUnavailable, err.Error())
	}
	defer s.mailClient.Close()

	now := time.Now()
	since := now.AddDate(0, 0, -request.LookbackDays)

	messages, folderErrors, err := s.mailClient.ListMessages(ctx, request.Folders, since)
	if err != nil {
		tracing.TraceErr(span, err)
		s.notify(ctx, enum.EventLevelError, fmt.Sprintf("Message retrieval failed: %v", err))
		return nil, err
	}
	for _, folderError := range folderErrors {
		s.notify(ctx, enum.EventLevelWarning, fmt.Sprintf("Folder %s skipped: %v", folderError.Folder, folderError.Err))
	}

	rules, invalidLines := s.providers.ParseRules(request.ProvidersText)
	for _, line := range invalidLines {
		s.notify(ctx, enum.EventLevelWarning, fmt.Sprintf("Ignoring invalid provider rule: %s", line))
	}

	accepted := s.filter.Filter(ctx, messages, interfaces.FilterCriteria{
		Now:          now,
		LookbackDays: request.LookbackDays,
		Keyword:      request.Keyword,
		Rules:        rules,
	}, s.currentObserver())

	run.MessagesFound = len(accepted)
	s.notify(ctx, enum.EventLevelInfo, fmt.Sprintf("%d matching messages found", len(accepted)))

	withDocuments := make([]*models.AcceptedMessage, 0, len(accepted))
	for _, message := range accepted {
		message.Documents = s.classifier.Classify(message.Attachments)
		if len(message.Documents) > 0 {
			withDocuments = append(withDocuments, message)
		}
	}

	files, namingSkipped := s.naming.Resolve(ctx, withDocuments, interfaces.NamingPolicy{
		SaveFolder:   request.SaveFolder,
		Mode:         request.ExtractionMode,
		Format:       request.NamingFormat,
		CustomSuffix: request.CustomSuffix,
	}, s.store)

	savedFiles, saveFailed, err := s.saveFiles(ctx, request, files)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	run.FilesSaved = len(savedFiles)
	run.FilesSkipped = namingSkipped + saveFailed
	run.Status = enum.RunStatusCompleted.String()
	if saveFailed > 0 || len(folderErrors) > 0 {
		run.Status = enum.RunStatusPartial.String()
	}

	if err := s.runRepo.MarkCompleted(ctx, run); err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to record run completion: %v", err)
	}

	if s.cfg.BackupConfig.Enabled && len(savedFiles) > 0 {
		archivePath, err := s.backup.Archive(ctx, run.ID, savedFiles)
		if err != nil {
			tracing.TraceErr(span, err)
			s.notify(ctx, enum.EventLevelWarning, fmt.Sprintf("Backup failed: %v", err))
		} else {
			s.notify(ctx, enum.EventLevelInfo, fmt.Sprintf("Backup archive written to %s", archivePath))
		}
	}

	if s.events != nil {
		s.events.PublishRunCompleted(ctx, dto.RunCompletedEvent{
			RunID:         run.ID,
			Status:        run.Status,
			MessagesFound: run.MessagesFound,
			FilesSaved:    run.FilesSaved,
			FilesSkipped:  run.FilesSkipped,
			CompletedAt:   time.Now().UTC(),
		})
	}

	s.notify(ctx, enum.EventLevelSuccess,
		fmt.Sprintf("Extraction finished: %d files saved, %d skipped", run.FilesSaved, run.FilesSkipped))

	return &dto.ExtractionResult{
		RunID:         run.ID,
		SavedFiles:    savedFiles,
		MessagesFound: run.MessagesFound,
		FilesSkipped:  run.FilesSkipped,
	}, nil
}

// saveFiles writes resolved files to the save folder and optionally converts
// them. A single file failure is reported and skipped; cancellation aborts.
func (s *extractorService) saveFiles(ctx context.Context, request dto.ExtractionRequest, files []interfaces.ResolvedFile) (map[string]string, int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ExtractorService.saveFiles")
	defer span.Finish()
	span.SetTag("files", len(files))

	savedFiles := make(map[string]string)
	failed := 0

	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, failed, ctx.Err()
		default:
		}

		path, err := s.store.Save(ctx, request.SaveFolder, file.Filename, file.Content)
		if err != nil {
			tracing.TraceErr(span, err)
			s.notify(ctx, enum.EventLevelError, fmt.Sprintf("Failed to save %s: %v", file.Filename, err))
			failed++
			continue
		}

		if request.ConversionEnabled && s.cfg.ConverterConfig.Enabled {
			convertedPath, err := s.converter.Convert(ctx, path, request.ConvertFormat)
			if err != nil {
				s.notify(ctx, enum.EventLevelWarning, fmt.Sprintf("Conversion failed for %s: %v", file.Filename, err))
			} else {
				path = convertedPath
			}
		}

		savedFiles[file.Filename] = path
		s.notify(ctx, enum.EventLevelInfo, fmt.Sprintf("Saved %s", file.Filename))
	}

	return savedFiles, failed, nil
}

func (s *extractorService) failRun(ctx context.Context, run *models.ExtractionRun, cause error) {
	run.Status = enum.RunStatusFailed.String()
	if err := s.runRepo.MarkCompleted(ctx, run); err != nil {
		s.log.Errorf("Failed to record failed run %s: %v", run.ID, err)
	}
	s.log.Errorf("Extraction run %s failed: %v", run.ID, cause)
}

func (s *extractorService) currentObserver() interfaces.ProgressObserver {
	s.observerMutex.RLock()
	defer s.observerMutex.RUnlock()
	return s.observer
}

func (s *extractorService) notify(ctx context.Context, level enum.EventLevel, message string) {
	observer := s.currentObserver()
	if observer == nil {
		return
	}
	observer.Notify(ctx, dto.ProgressEvent{
		Level:   level,
		Message: message,
	})
}

func validateRequest(request dto.ExtractionRequest) error {
	if request.SaveFolder == "" {
		return harvesterrors.ErrSaveFolderMissing
	}
	if len(request.Folders) == 0 {
		return harvesterrors.ErrNoFoldersSelected
	}
	return nil
}
