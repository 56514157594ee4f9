// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSOrigins() []string
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// CatalogConfig provides the location of the material catalog.
type CatalogConfig interface {
	GetCatalogPath() string
}

// VoiceConfig provides settings for the telephony call flow.
type VoiceConfig interface {
	GetPublicBaseURL() string
	GetVoiceLanguage() string
	GetVoiceName() string
	GetVoiceMaxReprompts() int
	GetVoiceHandoffNumber() string
	GetTwilioAuthToken() string
}

// LeadsConfig provides settings for lead delivery sinks.
type LeadsConfig interface {
	GetLeadsWebhookURL() string
	GetLeadsWebhookTimeout() time.Duration
	GetLeadsSourceTag() string
	GetLeadsEmailTo() string
	GetLeadDedupeTTL() time.Duration
}

// SMTPConfig provides settings for the lead email sink.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSMTPFromAddress() string
	GetSMTPFromName() string
	IsSMTPEnabled() bool
}

// WhatsAppConfig provides settings for the GOWA gateway that sends call summaries.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
}

// SchedulerConfig provides settings for the asynq lead delivery queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetLeadDeliveryMaxRetry() int
	IsEmbeddedWorkerEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
// It is built once by Load and treated as read-only afterwards.
type Config struct {
	Env                  string
	HTTPAddr             string
	PublicBaseURL        string
	CORSOrigins          []string
	RateLimitRPS         float64
	RateLimitBurst       int
	CatalogPath          string
	VoiceLanguage        string
	VoiceName            string
	VoiceMaxReprompts    int
	VoiceHandoffNumber   string
	TwilioAuthToken      string
	LeadsWebhookURL      string
	LeadsWebhookTimeout  time.Duration
	LeadsSourceTag       string
	LeadsEmailTo         string
	LeadDedupeTTL        time.Duration
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	SMTPFromAddress      string
	SMTPFromName         string
	WhatsAppURL          string
	WhatsAppKey          string
	WhatsAppDeviceID     string
	DatabaseURL          string
	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	AsynqConcurrency     int
	LeadDeliveryMaxRetry int
	EmbeddedWorker       bool
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// CatalogConfig implementation
func (c *Config) GetCatalogPath() string { return c.CatalogPath }

// VoiceConfig implementation
func (c *Config) GetPublicBaseURL() string      { return c.PublicBaseURL }
func (c *Config) GetVoiceLanguage() string      { return c.VoiceLanguage }
func (c *Config) GetVoiceName() string          { return c.VoiceName }
func (c *Config) GetVoiceMaxReprompts() int     { return c.VoiceMaxReprompts }
func (c *Config) GetVoiceHandoffNumber() string { return c.VoiceHandoffNumber }
func (c *Config) GetTwilioAuthToken() string    { return c.TwilioAuthToken }

// LeadsConfig implementation
func (c *Config) GetLeadsWebhookURL() string             { return c.LeadsWebhookURL }
func (c *Config) GetLeadsWebhookTimeout() time.Duration { return c.LeadsWebhookTimeout }
func (c *Config) GetLeadsSourceTag() string             { return c.LeadsSourceTag }
func (c *Config) GetLeadsEmailTo() string               { return c.LeadsEmailTo }
func (c *Config) GetLeadDedupeTTL() time.Duration       { return c.LeadDedupeTTL }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string        { return c.SMTPHost }
func (c *Config) GetSMTPPort() int           { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string    { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string    { return c.SMTPPassword }
func (c *Config) GetSMTPFromAddress() string { return c.SMTPFromAddress }
func (c *Config) GetSMTPFromName() string    { return c.SMTPFromName }
func (c *Config) IsSMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFromAddress != ""
}

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string { return c.WhatsAppDeviceID }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string          { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool    { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string    { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int     { return c.AsynqConcurrency }
func (c *Config) GetLeadDeliveryMaxRetry() int { return c.LeadDeliveryMaxRetry }
func (c *Config) IsEmbeddedWorkerEnabled() bool {
	return c.EmbeddedWorker && c.RedisURL != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":"+getEnv("PORT", "10000")),
		PublicBaseURL:        strings.TrimRight(getEnv("PUBLIC_BASE_URL", ""), "/"),
		CORSOrigins:          splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200")),
		RateLimitRPS:         mustFloat(getEnv("RATE_LIMIT_RPS", "5")),
		RateLimitBurst:       mustInt(getEnv("RATE_LIMIT_BURST", "20")),
		CatalogPath:          strings.TrimSpace(getEnv("CATALOG_PATH", "data/marmurfit_kb.json")),
		VoiceLanguage:        getEnv("VOICE_LANGUAGE", "ro-RO"),
		VoiceName:            getEnv("VOICE_NAME", ""),
		VoiceMaxReprompts:    mustInt(getEnv("VOICE_MAX_REPROMPTS", "3")),
		VoiceHandoffNumber:   strings.TrimSpace(getEnv("VOICE_HANDOFF_NUMBER", "")),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		LeadsWebhookURL:      strings.TrimSpace(getEnv("LEADS_WEBHOOK_URL", "")),
		LeadsWebhookTimeout:  mustDuration(getEnv("LEADS_WEBHOOK_TIMEOUT", "10s")),
		LeadsSourceTag:       getEnv("LEADS_SOURCE_TAG", "apel"),
		LeadsEmailTo:         strings.TrimSpace(getEnv("LEADS_EMAIL_TO", "")),
		LeadDedupeTTL:        mustDuration(getEnv("LEAD_DEDUPE_TTL", "1h")),
		SMTPHost:             strings.TrimSpace(getEnv("SMTP_HOST", "")),
		SMTPPort:             mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		SMTPFromAddress:      strings.TrimSpace(getEnv("SMTP_FROM_ADDRESS", "")),
		SMTPFromName:         getEnv("SMTP_FROM_NAME", "MARMURFIT Voice Bot"),
		WhatsAppURL:          strings.TrimSpace(getEnv("WHATSAPP_URL", "")),
		WhatsAppKey:          getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:     getEnv("WHATSAPP_DEVICE_ID", ""),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "leads"),
		AsynqConcurrency:     mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		LeadDeliveryMaxRetry: mustInt(getEnv("LEAD_DELIVERY_MAX_RETRY", "0")),
		EmbeddedWorker:       !strings.EqualFold(getEnv("WORKER_EMBEDDED", "true"), "false"),
	}

	if cfg.CatalogPath == "" {
		return nil, fmt.Errorf("CATALOG_PATH is required")
	}
	if cfg.VoiceMaxReprompts < 1 {
		return nil, fmt.Errorf("VOICE_MAX_REPROMPTS must be at least 1")
	}
	if cfg.LeadsWebhookTimeout <= 0 {
		return nil, fmt.Errorf("LEADS_WEBHOOK_TIMEOUT must be a positive duration")
	}
	if cfg.LeadDeliveryMaxRetry < 0 {
		return nil, fmt.Errorf("LEAD_DELIVERY_MAX_RETRY cannot be negative")
	}
	if (cfg.SMTPHost == "") != (cfg.SMTPFromAddress == "") {
		return nil, fmt.Errorf("SMTP_HOST and SMTP_FROM_ADDRESS must be set together")
	}
	if cfg.LeadsEmailTo != "" && !cfg.IsSMTPEnabled() {
		return nil, fmt.Errorf("LEADS_EMAIL_TO requires SMTP_HOST and SMTP_FROM_ADDRESS")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
