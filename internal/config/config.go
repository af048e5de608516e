package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Jobs    JobsConfig
	Notify  NotifyConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	Env  string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// JobsConfig holds scheduler-related settings for the daily carry-forward and
// monthly archive jobs. Timezone is accepted for forward compatibility but day
// boundaries are currently computed in the host's local time.
type JobsConfig struct {
	CarrySchedule     string
	ArchiveSchedule   string
	Timezone          string
	EnableManualCarry bool
}

// NotifyConfig configures the optional run-summary webhook.
type NotifyConfig struct {
	WebhookURL string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
			Env:  getenvWithDefault("APP_ENV", "development"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "dairy"),
		},
		Jobs: JobsConfig{
			CarrySchedule:     getenvWithDefault("CARRY_CRON_SCHEDULE", "0 1 * * *"),
			ArchiveSchedule:   getenvWithDefault("ARCHIVE_CRON_SCHEDULE", "30 0 1 * *"),
			Timezone:          getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
			EnableManualCarry: os.Getenv("ENABLE_DAILY_CARRY_MANUAL") == "true",
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("SUMMARY_WEBHOOK_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Jobs.CarrySchedule == "" {
		return errors.New("CARRY_CRON_SCHEDULE must be provided")
	}

	if c.Jobs.ArchiveSchedule == "" {
		return errors.New("ARCHIVE_CRON_SCHEDULE must be provided")
	}

	if c.Jobs.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
