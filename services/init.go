package services

import (
	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/interfaces"
	"github.com/customeros/mailharvest/internal/logger"
	"github.com/customeros/mailharvest/internal/repository"
	"github.com/customeros/mailharvest/services/backup"
	"github.com/customeros/mailharvest/services/classifier"
	"github.com/customeros/mailharvest/services/converter"
	"github.com/customeros/mailharvest/services/events"
	"github.com/customeros/mailharvest/services/extractor"
	"github.com/customeros/mailharvest/services/filter"
	"github.com/customeros/mailharvest/services/imap"
	"github.com/customeros/mailharvest/services/naming"
	"github.com/customeros/mailharvest/services/providers"
	"github.com/customeros/mailharvest/services/storage"
)

type Services struct {
	EventsService          interfaces.EventsService
	MailClient             interfaces.MailClient
	ProviderMatcherService interfaces.ProviderMatcherService
	MessageFilterService   interfaces.MessageFilterService
	ClassifierService      interfaces.AttachmentClassifierService
	NameResolverService    interfaces.NameResolverService
	FileStore              interfaces.FileStore
	ConverterService       interfaces.ConverterService
	BackupService          interfaces.BackupService
	ExtractorService       interfaces.ExtractorService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) *Services {
	eventsService := events.NewEventsService(cfg.AppConfig.RabbitMQURL, log)
	mailClient := imap.NewIMAPClient(cfg.MailClientConfig)
	providerMatcher := providers.NewProviderMatcherService()
	messageFilter := filter.NewMessageFilterService(providerMatcher)
	classifierService := classifier.NewAttachmentClassifierService()
	nameResolver := naming.NewNameResolverService()
	fileStore := storage.NewLocalFileStore()
	converterService := converter.NewConverterService(cfg.ConverterConfig)
	backupService := backup.NewBackupService(cfg.BackupConfig)

	extractorService := extractor.NewExtractorService(
		cfg,
		log,
		mailClient,
		providerMatcher,
		messageFilter,
		classifierService,
		nameResolver,
		fileStore,
		converterService,
		backupService,
		eventsService,
		repos.ExtractionRunRepository,
	)
	extractorService.SetObserver(extractor.NewCompositeObserver(
		extractor.NewLoggerObserver(log),
		eventsService,
	))

	return &Services{
		EventsService:          eventsService,
		MailClient:             mailClient,
		ProviderMatcherService: providerMatcher,
		MessageFilterService:   messageFilter,
		ClassifierService:      classifierService,
		NameResolverService:    nameResolver,
		FileStore:              fileStore,
		ConverterService:       converterService,
		BackupService:          backupService,
		ExtractorService:       extractorService,
	}
}
