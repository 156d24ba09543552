package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Scheduled attachment extraction, daily at 06:00
	CronScheduleExtraction string `env:"CRON_SCHEDULE_EXTRACTION" envDefault:"0 0 6 * * *"`
}
