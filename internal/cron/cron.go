package cron

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"

	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/dto"
	"github.com/customeros/mailharvest/interfaces"
	cron_config "github.com/customeros/mailharvest/internal/cron/config"
	"github.com/customeros/mailharvest/internal/enum"
	"github.com/customeros/mailharvest/internal/logger"
	"github.com/customeros/mailharvest/internal/tracing"
)

// CONSTANTS
const (
	// GroupExtraction is the group for extraction related jobs
	GroupExtraction = "extraction"
)

// LOCK MANAGEMENT
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupExtraction: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg       *config.Config
	log       logger.Logger
	cron      *cronv3.Cron
	stopCh    chan struct{}
	jobIDs    map[string]cronv3.EntryID
	extractor interfaces.ExtractorService
	runRepo   interfaces.ExtractionRunRepository
}

func NewCronManager(cfg *config.Config, log logger.Logger, extractor interfaces.ExtractorService, runRepo interfaces.ExtractionRunRepository) *CronManager {
	return &CronManager{
		cfg:       cfg,
		log:       log,
		stopCh:    make(chan struct{}),
		jobIDs:    make(map[string]cronv3.EntryID),
		extractor: extractor,
		runRepo:   runRepo,
	}
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	// Load cron config from environment variables
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	// Register heartbeat job
	if cronConfig.CronScheduleHeartbeat != "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "local"
		}
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from host: %s", hostname)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	// Add scheduled extraction job
	if cronConfig.CronScheduleExtraction != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleExtraction, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupExtraction].Lock()
			defer jobLocks.locks[GroupExtraction].Unlock()
			cm.runScheduledExtraction()
		})
		if err != nil {
			cm.log.Fatalf("Could not add extraction cron job: %v", err)
		}
		cm.jobIDs["extraction"] = id
		cm.log.Infof("Registered extraction job with schedule: %s", cronConfig.CronScheduleExtraction)
	}
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")
	// Create a new cron with seconds field enabled and panic recovery
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger),
			cronv3.Recover(cronv3.DefaultLogger),
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

func (cm *CronManager) runScheduledExtraction() {
	cm.log.Info("Running scheduled extraction")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.runScheduledExtraction")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	if cm.alreadyRanToday(ctx) {
		cm.log.Info("Skipping scheduled extraction, a run already completed today")
		return
	}

	extractionConfig := cm.cfg.ExtractionConfig
	request := dto.ExtractionRequest{
		Folders:           extractionConfig.Folders,
		LookbackDays:      extractionConfig.LookbackDays,
		Keyword:           extractionConfig.Keyword,
		ProvidersText:     extractionConfig.ProvidersText,
		SaveFolder:        extractionConfig.SaveFolder,
		NamingFormat:      enum.DecodeNamingFormat(extractionConfig.NamingFormat),
		CustomSuffix:      extractionConfig.CustomSuffix,
		ExtractionMode:    enum.DecodeExtractionMode(extractionConfig.ExtractionMode),
		ConversionEnabled: cm.cfg.ConverterConfig.Enabled,
		ConvertFormat:     cm.cfg.ConverterConfig.Format,
	}

	result, err := cm.extractor.Extract(ctx, request)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Scheduled extraction failed: %v", err)
		return
	}

	cm.log.Infof("Scheduled extraction %s finished: %d messages, %d files saved",
		result.RunID, result.MessagesFound, len(result.SavedFiles))
}

// alreadyRanToday reports whether the latest completed run finished on the
// current calendar day. A repository error never blocks the schedule.
func (cm *CronManager) alreadyRanToday(ctx context.Context) bool {
	if cm.runRepo == nil {
		return false
	}

	latest, err := cm.runRepo.GetLatest(ctx)
	if err != nil {
		cm.log.Warnf("Could not check latest extraction run: %v", err)
		return false
	}
	if latest == nil || latest.CompletedAt == nil {
		return false
	}

	now := time.Now()
	completed := latest.CompletedAt.Local()
	return completed.Year() == now.Year() && completed.YearDay() == now.YearDay()
}
