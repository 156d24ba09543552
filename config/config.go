package config

import (
	"github.com/customeros/mailharvest/internal/logger"
	"github.com/customeros/mailharvest/internal/tracing"
)

type AppConfig struct {
	APIPort     string `env:"PORT" envDefault:"12333"`
	APIKey      string `env:"API_KEY,required"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
}

type DatabaseConfig struct {
	Host            string `env:"MAILHARVEST_POSTGRES_HOST,required"`
	Port            string `env:"MAILHARVEST_POSTGRES_PORT,required"`
	User            string `env:"MAILHARVEST_POSTGRES_USER,required"`
	DBName          string `env:"MAILHARVEST_POSTGRES_DB_NAME,required"`
	Password        string `env:"MAILHARVEST_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"MAILHARVEST_POSTGRES_DB_MAX_CONN" envDefault:"10"`
	MaxIdleConn     int    `env:"MAILHARVEST_POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"MAILHARVEST_POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"MAILHARVEST_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"MAILHARVEST_POSTGRES_SSL_MODE" envDefault:"disable"`
}

type MailClientConfig struct {
	ImapServer   string `env:"IMAP_SERVER,required"`
	ImapPort     int    `env:"IMAP_PORT" envDefault:"993"`
	ImapUsername string `env:"IMAP_USERNAME,required"`
	ImapPassword string `env:"IMAP_PASSWORD,required"`
	ImapTLS      bool   `env:"IMAP_TLS" envDefault:"true"`
}

// ExtractionConfig holds the defaults used by scheduled runs; API callers can
// override any of them per request.
type ExtractionConfig struct {
	Folders        []string `env:"EXTRACTION_FOLDERS" envDefault:"INBOX"`
	LookbackDays   int      `env:"EXTRACTION_LOOKBACK_DAYS" envDefault:"7"`
	Keyword        string   `env:"EXTRACTION_KEYWORD"`
	ProvidersText  string   `env:"EXTRACTION_PROVIDERS"`
	SaveFolder     string   `env:"EXTRACTION_SAVE_FOLDER" envDefault:"./attachments"`
	NamingFormat   string   `env:"EXTRACTION_NAMING_FORMAT" envDefault:"date"`
	CustomSuffix   string   `env:"EXTRACTION_CUSTOM_SUFFIX"`
	ExtractionMode string   `env:"EXTRACTION_MODE" envDefault:"all"`
}

type ConverterConfig struct {
	Url     string `env:"CONVERTER_URL"`
	Enabled bool   `env:"CONVERTER_ENABLED" envDefault:"false"`
	Format  string `env:"CONVERTER_FORMAT" envDefault:"pdf"`
}

type BackupConfig struct {
	Enabled         bool   `env:"BACKUP_ENABLED" envDefault:"false"`
	AccountID       string `env:"BACKUP_R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"BACKUP_R2_ACCESS_KEY_ID"`
	AccessKeySecret string `env:"BACKUP_R2_ACCESS_KEY_SECRET"`
	Bucket          string `env:"BACKUP_BUCKET" envDefault:"extraction-backups"`
}

type Config struct {
	AppConfig        *AppConfig
	Logger           *logger.Config
	Tracing          *tracing.JaegerConfig
	DatabaseConfig   *DatabaseConfig
	MailClientConfig *MailClientConfig
	ExtractionConfig *ExtractionConfig
	ConverterConfig  *ConverterConfig
	BackupConfig     *BackupConfig
}
