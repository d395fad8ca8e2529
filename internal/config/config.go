package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the composition root needs. Loaded once at boot;
// nothing else in the tree reads the environment.
type Config struct {
	Port           string
	PrimaryBackend string // postgres | airtable | memory

	DatabaseURL string

	AirtableAPIKey string
	AirtableBaseID string
	AirtableTable  string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	MailHost string
	MailPort int
	MailUser string
	MailPass string

	BackupPath       string
	QualificationTTL time.Duration

	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		PrimaryBackend: getEnv("PRIMARY_BACKEND", "postgres"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AirtableAPIKey: os.Getenv("AIRTABLE_API_KEY"),
		AirtableBaseID: os.Getenv("AIRTABLE_BASE_ID"),
		AirtableTable:  getEnv("AIRTABLE_LEADS_TABLE", "Leads"),

		RabbitUser: getEnv("RABBITMQ_USER", "guest"),
		RabbitPass: getEnv("RABBITMQ_PASS", "guest"),
		RabbitHost: os.Getenv("RABBITMQ_HOST"),
		RabbitPort: getEnv("RABBITMQ_PORT", "5672"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: getEnvInt("MAIL_PORT", 587),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),

		BackupPath:       getEnv("LEADS_BACKUP_PATH", "data/leads_backup.json"),
		QualificationTTL: getEnvDuration("QUALIFICATION_TTL", 24*time.Hour),

		AllowedOrigins: []string{getEnv("FRONTEND_ORIGIN", "*")},
	}
}

func (c *Config) AirtableConfigured() bool {
	return c.AirtableAPIKey != "" && c.AirtableBaseID != ""
}

func (c *Config) RabbitConfigured() bool {
	return c.RabbitHost != ""
}

func (c *Config) MailConfigured() bool {
	return c.MailHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
