package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/customeros/mailharvest/config"
	"github.com/customeros/mailharvest/dto"
	"github.com/customeros/mailharvest/internal/database"
	"github.com/customeros/mailharvest/internal/enum"
	"github.com/customeros/mailharvest/internal/logger"
	"github.com/customeros/mailharvest/internal/repository"
	"github.com/customeros/mailharvest/internal/tracing"
	"github.com/customeros/mailharvest/server"
	"github.com/customeros/mailharvest/services"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}
	if cfg == nil {
		log.Fatalf("config is empty")
	}

	db, err := database.NewConnection(cfg.DatabaseConfig)
	if err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}

	switch os.Args[1] {
	case "migrate":

		err := repository.MigrateDB(db)
		if err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")

	case "extract":

		runOnce(cfg, db)

	case "server":

		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Println("MailHarvest starting up...")

		srv, err := server.NewServer(cfg, db)
		if err != nil {
			log.Fatalf("Server setup failed: %v", err)
		}

		err = srv.Run()
		if err != nil {
			log.Fatalf("Server startup failed: %v", err)
		}

		log.Println("Shutdown complete")

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// runOnce executes a single extraction with the configured defaults and exits.
func runOnce(cfg *config.Config, db *gorm.DB) {
	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	tracer, closer, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		log.Fatalf("Could not initialize jaeger tracer: %s", err.Error())
	}
	defer closer.Close()
	opentracing.SetGlobalTracer(tracer)

	repos := repository.InitRepositories(db)
	svcs := services.InitServices(cfg, appLogger, repos)
	defer svcs.EventsService.Close()

	extractionConfig := cfg.ExtractionConfig
	request := dto.ExtractionRequest{
		Folders:           extractionConfig.Folders,
		LookbackDays:      extractionConfig.LookbackDays,
		Keyword:           extractionConfig.Keyword,
		ProvidersText:     extractionConfig.ProvidersText,
		SaveFolder:        extractionConfig.SaveFolder,
		NamingFormat:      enum.DecodeNamingFormat(extractionConfig.NamingFormat),
		CustomSuffix:      extractionConfig.CustomSuffix,
		ExtractionMode:    enum.DecodeExtractionMode(extractionConfig.ExtractionMode),
		ConversionEnabled: cfg.ConverterConfig.Enabled,
		ConvertFormat:     cfg.ConverterConfig.Format,
	}

	result, err := svcs.ExtractorService.Extract(context.Background(), request)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	log.Printf("Extraction %s finished: %d messages, %d files saved, %d skipped",
		result.RunID, result.MessagesFound, len(result.SavedFiles), result.FilesSkipped)
}

func printUsage() {
	fmt.Println("Usage: mailharvest <command>")
	fmt.Println("Commands:")
	fmt.Println("  migrate   Run database migrations")
	fmt.Println("  extract   Run one extraction with the configured defaults")
	fmt.Println("  server    Start the application server")
}
